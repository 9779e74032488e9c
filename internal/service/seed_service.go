package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ajaykanojiya578/Junior-College-Result/internal/models"
	"github.com/Ajaykanojiya578/Junior-College-Result/internal/repository"
)

// SeedService bootstraps reference data on startup.
type SeedService interface {
	Run(ctx context.Context) error
}

type seedService struct {
	subjects      repository.SubjectRepository
	teachers      repository.TeacherRepository
	adminUserID   string
	adminPassword string
	logger        zerolog.Logger
}

// NewSeedService constructs the startup seeder. Admin credentials may be
// empty, in which case no bootstrap account is created.
func NewSeedService(subjects repository.SubjectRepository, teachers repository.TeacherRepository, adminUserID, adminPassword string, logger zerolog.Logger) SeedService {
	return &seedService{
		subjects:      subjects,
		teachers:      teachers,
		adminUserID:   strings.TrimSpace(adminUserID),
		adminPassword: adminPassword,
		logger:        logger.With().Str("component", "seed_service").Logger(),
	}
}

// canonicalSubjects is the standard FYJC commerce catalogue. EVS and PE are
// core but grade-only; the code-level predicate handles that distinction.
var canonicalSubjects = []models.Subject{
	{SubjectCode: models.CodeEng, SubjectName: "English", SubjectType: models.SubjectTypeCore},
	{SubjectCode: models.CodeEco, SubjectName: "Economics", SubjectType: models.SubjectTypeCore},
	{SubjectCode: models.CodeBk, SubjectName: "Book Keeping and Accountancy", SubjectType: models.SubjectTypeCore},
	{SubjectCode: models.CodeOc, SubjectName: "Organisation of Commerce", SubjectType: models.SubjectTypeCore},
	{SubjectCode: models.CodeHindi, SubjectName: "Hindi", SubjectType: models.SubjectTypeOptional},
	{SubjectCode: models.CodeIT, SubjectName: "Information Technology", SubjectType: models.SubjectTypeOptional},
	{SubjectCode: models.CodeMaths, SubjectName: "Mathematics and Statistics", SubjectType: models.SubjectTypeOptional},
	{SubjectCode: models.CodeSP, SubjectName: "Secretarial Practice", SubjectType: models.SubjectTypeOptional},
	{SubjectCode: models.CodeEvs, SubjectName: "Environment Education", SubjectType: models.SubjectTypeCore},
	{SubjectCode: models.CodePe, SubjectName: "Physical Education", SubjectType: models.SubjectTypeCore},
}

func (s *seedService) Run(ctx context.Context) error {
	if err := s.seedSubjects(ctx); err != nil {
		return err
	}
	return s.seedAdmin(ctx)
}

// seedSubjects fills an empty catalogue; an already-populated table is left
// untouched so operator edits survive restarts.
func (s *seedService) seedSubjects(ctx context.Context) error {
	total, err := s.subjects.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for i := range canonicalSubjects {
		subject := canonicalSubjects[i]
		subject.Active = true
		if err := s.subjects.Create(ctx, &subject); err != nil {
			return err
		}
	}

	s.logger.Info().Int("subjects", len(canonicalSubjects)).Msg("subject catalogue seeded")
	return nil
}

func (s *seedService) seedAdmin(ctx context.Context) error {
	if s.adminUserID == "" || s.adminPassword == "" {
		return nil
	}

	_, err := s.teachers.GetByUserID(ctx, s.adminUserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Teacher{
		Name:         "Administrator",
		UserID:       s.adminUserID,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := s.teachers.Create(ctx, &admin); err != nil {
		return err
	}

	s.logger.Info().Str("userid", s.adminUserID).Msg("bootstrap admin account created")
	return nil
}
