package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dentalmark/dentalmark/internal/app"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/events"
	"github.com/dentalmark/dentalmark/internal/workspace"
)

// FallbackMarkerColor paints markers whose treatment is not in the catalog.
const FallbackMarkerColor = "#6b7280"

type budgetService struct {
	treatments TreatmentService
	companies  CompanyService
	validator  Validator
	logger     *slog.Logger
	observer   UseCaseObserver
}

// NewBudgetService returns the annotate use case. Treatments price the
// markers; companies supply the practitioner block and observations.
func NewBudgetService(treatments TreatmentService, companies CompanyService, v Validator, logger *slog.Logger, observers ...UseCaseObserver) app.AnnotateUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &budgetService{
		treatments: treatments,
		companies:  companies,
		validator:  v,
		logger:     logger,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *budgetService) Annotate(ctx context.Context, req app.AnnotateRequest) (resp *app.AnnotateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"company": req.CompanyID,
		"images":  len(req.Images),
		"marks":   len(req.Marks),
	}
	defer func() { observe(ctx, s.observer, "annotate-budget", startedAt, fields, err) }()

	if s.validator != nil && req.Patient.Name != "" {
		if err = s.validator.Struct(req.Patient); err != nil {
			return nil, err
		}
	}

	catalog, err := s.treatments.Catalog(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	resp = &app.AnnotateResponse{Patient: req.Patient, Images: len(req.Images)}
	bus, err := events.NewBus(events.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	bus.Subscribe(events.Notice, func(e events.Event) error {
		if e.Level == events.LevelError {
			resp.Warnings = append(resp.Warnings, e.Message)
		}
		return nil
	})

	visit, err := workspace.NewVisit(req.Patient, catalog, bus, s.logger)
	if err != nil {
		return nil, err
	}
	defer visit.Close()

	indexes := make([]int, len(req.Images))
	for i, img := range req.Images {
		if indexes[i], err = visit.AddImage(img.Data); err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
	}
	slot := func(pos int) (int, error) {
		if pos < 0 || pos >= len(indexes) {
			return 0, fmt.Errorf("image %d: %w", pos, domain.ErrSlotNotFound)
		}
		return indexes[pos], nil
	}

	for _, op := range req.Marks {
		idx, err := slot(op.Image)
		if err != nil {
			return nil, err
		}
		color := FallbackMarkerColor
		if t, ok := catalog.Lookup(op.Treatment); ok {
			color = t.Color
		} else {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%q no está en el catálogo; costo 0", op.Treatment))
		}
		surf, err := visit.Surface(idx)
		if err != nil {
			return nil, err
		}
		visit.Arm(color, op.Treatment)
		out, err := surf.PointerDown(op.X, op.Y)
		if err != nil {
			return nil, fmt.Errorf("marking image %d: %w", op.Image, err)
		}
		res := app.MarkResult{Op: op}
		switch {
		case out.Placed != nil:
			res.MarkerID = out.Placed.ID
		case out.Selected != nil:
			res.MarkerID = out.Selected.ID
			res.Selected = true
		}
		resp.Marks = append(resp.Marks, res)
	}
	visit.Disarm()

	for _, op := range req.Selects {
		idx, err := slot(op.Image)
		if err != nil {
			return nil, err
		}
		surf, err := visit.Surface(idx)
		if err != nil {
			return nil, err
		}
		m, ok := surf.HitTest(op.X, op.Y)
		if !ok {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("sin marca en %d@%g,%g", op.Image, op.X, op.Y))
			continue
		}
		if err := surf.SelectMarker(m.ID); err != nil {
			return nil, err
		}
		if op.Delete {
			if removed := surf.DeleteSelected(); removed != nil {
				resp.Deleted = append(resp.Deleted, *removed)
			}
		}
	}

	for _, pos := range req.ClearImages {
		idx, err := slot(pos)
		if err != nil {
			return nil, err
		}
		surf, err := visit.Surface(idx)
		if err != nil {
			return nil, err
		}
		removed, err := surf.ClearAll()
		if err != nil {
			return nil, err
		}
		resp.Deleted = append(resp.Deleted, removed...)
	}

	if req.SessionCount > 0 {
		if err = visit.Engine().SetSessionCount(req.SessionCount); err != nil {
			return nil, err
		}
	}

	if req.Snapshots {
		resp.Snapshots = make(map[int][]byte, len(indexes))
		for pos, idx := range indexes {
			surf, err := visit.Surface(idx)
			if err != nil {
				return nil, err
			}
			png, err := surf.Snapshot()
			if err != nil {
				return nil, fmt.Errorf("snapshot of image %d: %w", pos, err)
			}
			resp.Snapshots[pos] = png
		}
	}

	resp.Summary = visit.Summary()
	resp.Doctor = s.companies.DoctorInfo(ctx, req.CompanyID)
	resp.Observations = s.companies.ImportantObservations(ctx, req.CompanyID)
	fields["total"] = resp.Summary.GrandTotal.String()
	return resp, nil
}
