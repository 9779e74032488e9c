package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/observability"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// ResultService recomputes result rows for a division from its current
// students, allocations and marks.
type ResultService interface {
	Recompute(ctx context.Context, division string) error
}

type resultService struct {
	students    repository.StudentRepository
	subjects    repository.SubjectRepository
	allocations repository.AllocationRepository
	marks       repository.MarkRepository
	results     repository.ResultRepository
	logger      zerolog.Logger
}

// NewResultService constructs the result computation service.
func NewResultService(
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	allocations repository.AllocationRepository,
	marks repository.MarkRepository,
	results repository.ResultRepository,
	logger zerolog.Logger,
) ResultService {
	return &resultService{
		students:    students,
		subjects:    subjects,
		allocations: allocations,
		marks:       marks,
		results:     results,
		logger:      logger.With().Str("component", "result_service").Logger(),
	}
}

// Recompute rebuilds the division's result rows and commits them in one
// transaction. A student missing any required annual mark is incomplete:
// an existing row keeps its stored scores but loses its percentage, and no
// new row is created. The call is idempotent and touches no other division.
func (s *resultService) Recompute(ctx context.Context, division string) error {
	tracer := otel.Tracer("github.com/Ajaykanojiya578/Junior-College-Result/internal/service/result")
	ctx, span := tracer.Start(ctx, "result.recompute")
	span.SetAttributes(attribute.String("result.division", division))
	defer span.End()

	started := time.Now()

	err := s.recompute(ctx, division, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute_failed")
		observability.ObserveRecompute("error", time.Since(started))
		return err
	}

	observability.ObserveRecompute("ok", time.Since(started))
	return nil
}

func (s *resultService) recompute(ctx context.Context, division string, span trace.Span) error {
	subjects, err := s.subjects.List(ctx, repository.SubjectFilter{})
	if err != nil {
		return fmt.Errorf("load subjects: %w", err)
	}

	codeByID := make(map[uint]string, len(subjects))
	for _, subject := range subjects {
		codeByID[subject.SubjectID] = subject.SubjectCode
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Division: division})
	if err != nil {
		return fmt.Errorf("load students: %w", err)
	}
	if len(students) == 0 {
		span.SetAttributes(attribute.Int("result.students", 0))
		return nil
	}

	// Allocations are re-read on every pass so required-subject changes are
	// visible immediately.
	allocations, err := s.allocations.List(ctx, repository.AllocationFilter{Division: division})
	if err != nil {
		return fmt.Errorf("load allocations: %w", err)
	}
	base := requiredBaseCodes(allocations, codeByID)

	marks, err := s.marks.List(ctx, repository.MarkFilter{Division: division})
	if err != nil {
		return fmt.Errorf("load marks: %w", err)
	}

	markByRoll := make(map[int]map[string]models.Mark)
	for _, mark := range marks {
		code, ok := codeByID[mark.SubjectID]
		if !ok {
			continue
		}
		byCode, ok := markByRoll[mark.RollNo]
		if !ok {
			byCode = make(map[string]models.Mark)
			markByRoll[mark.RollNo] = byCode
		}
		byCode[code] = mark
	}

	existing, err := s.results.ListByDivision(ctx, division)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}
	existingByRoll := make(map[int]models.Result, len(existing))
	for _, row := range existing {
		existingByRoll[row.RollNo] = row
	}

	rows := make([]models.Result, 0, len(students))
	var complete, incomplete int

	for _, student := range students {
		required := requiredCodesFor(student, base)
		markByCode := markByRoll[student.RollNo]

		satisfied := true
		for _, code := range required {
			mark, ok := markByCode[code]
			if !ok || !mark.HasAnnual() {
				satisfied = false
				break
			}
		}

		row, found := existingByRoll[student.RollNo]

		if !satisfied {
			incomplete++
			// An incomplete student keeps their stored scores but must not
			// present a final percentage.
			if found && row.Percentage != nil {
				row.Percentage = nil
				rows = append(rows, row)
			}
			continue
		}

		if !found {
			row = models.Result{RollNo: student.RollNo, Division: student.Division}
		}
		row.Name = student.Name

		// The scoring set is fixed regardless of allocations: every core
		// subject with a mark row, then the student's chosen electives. The
		// required set above only gates completeness.
		var total float64
		var count int
		for _, code := range coreSubjectCodes {
			mark, ok := markByCode[code]
			if !ok {
				continue
			}
			var annual float64
			if mark.Annual != nil {
				annual = *mark.Annual
			}
			row.SetSubjectScore(code, annual, mark.Grace)
			total += annual
			count++
		}
		for _, code := range student.OptionalCodes() {
			mark := markByCode[code]
			var annual float64
			if mark.Annual != nil {
				annual = *mark.Annual
			}
			row.SetSubjectScore(code, annual, mark.Grace)
			total += annual
			count++
		}

		totalGrace := row.GraceTotal()
		row.TotalGrace = &totalGrace

		if count > 0 {
			percentage := round2(total / float64(count))
			row.Percentage = &percentage
		} else {
			row.Percentage = nil
		}

		if mark, ok := markByCode[models.CodeEvs]; ok && mark.HasAnnual() {
			row.EvsGrade = LetterGrade(*mark.Annual)
		}
		if mark, ok := markByCode[models.CodePe]; ok && mark.HasAnnual() {
			row.PeGrade = LetterGrade(*mark.Annual)
		}

		rows = append(rows, row)
		complete++
	}

	if err := s.results.SaveAll(ctx, rows); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	span.SetAttributes(
		attribute.Int("result.students", len(students)),
		attribute.Int("result.complete", complete),
		attribute.Int("result.incomplete", incomplete),
	)
	s.logger.Debug().
		Str("division", division).
		Int("students", len(students)).
		Int("complete", complete).
		Int("incomplete", incomplete).
		Msg("division results recomputed")

	return nil
}
