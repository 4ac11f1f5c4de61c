package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkList_Set(t *testing.T) {
	var m markList
	require.NoError(t, m.Set("0:Extraction@120,80"))
	require.NoError(t, m.Set("2: Limpieza profunda: completa @ 10.5, 20"))

	assert.Equal(t, markList{
		{Image: 0, Treatment: "Extraction", X: 120, Y: 80},
		{Image: 2, Treatment: "Limpieza profunda: completa", X: 10.5, Y: 20},
	}, m)
	assert.Equal(t, "0:Extraction@120,80 2:Limpieza profunda: completa@10.5,20", m.String())
	assert.Equal(t, "mark", m.Type())
}

func TestMarkList_SetErrors(t *testing.T) {
	tests := []string{
		"Extraction@1,2",
		"0:Extraction",
		"x:Extraction@1,2",
		"-1:Extraction@1,2",
		"0:@1,2",
		"0:Extraction@1",
		"0:Extraction@a,2",
		"0:Extraction@1,b",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			var m markList
			assert.Error(t, m.Set(in))
			assert.Empty(t, m)
		})
	}
}

func TestSelectList_Set(t *testing.T) {
	var s selectList
	require.NoError(t, s.Set("1@99,101"))
	assert.Equal(t, selectList{{Image: 1, X: 99, Y: 101}}, s)
	assert.Equal(t, "1@99,101", s.String())

	assert.Error(t, s.Set("1:99,101"))
	assert.Error(t, s.Set("1@99"))
	assert.Len(t, s, 1)
}
