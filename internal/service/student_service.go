package service

import (
	"context"
	"slices"
	"strings"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"go.uber.org/zap"
)

// StudentService manages the class roster.
type StudentService interface {
	List(ctx context.Context, className string) ([]*domain.Student, error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	Create(ctx context.Context, student *domain.Student) (*domain.Student, error)
	Update(ctx context.Context, id string, student *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo domain.StudentRepository
}

func NewStudentService(repo domain.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

// List returns every student, or one class when className is set, sorted by name.
func (s *studentService) List(ctx context.Context, className string) ([]*domain.Student, error) {
	var (
		students []*domain.Student
		err      error
	)
	if className = strings.TrimSpace(className); className != "" {
		students, err = s.repo.ListStudentsByClass(ctx, className)
	} else {
		students, err = s.repo.ListStudents(ctx)
	}
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(students, func(a, b *domain.Student) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return students, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.GetStudentByID(ctx, id)
}

func (s *studentService) Create(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	normalizeStudent(student)
	if err := student.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	logger.Get().Info("Student created", zap.String("student_id", student.ID), zap.String("class", student.ClassName))
	return student, nil
}

// Update replaces every editable field of the student.
func (s *studentService) Update(ctx context.Context, id string, student *domain.Student) (*domain.Student, error) {
	normalizeStudent(student)
	if err := student.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student.ID = id
	student.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateStudent(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}
	logger.Get().Info("Student deleted", zap.String("student_id", id))
	return nil
}

func normalizeStudent(st *domain.Student) {
	st.Name = strings.TrimSpace(st.Name)
	st.ClassName = strings.TrimSpace(st.ClassName)
	st.ParentName = strings.TrimSpace(st.ParentName)
	st.ParentEmail = strings.ToLower(strings.TrimSpace(st.ParentEmail))
	st.ParentPhone = strings.TrimSpace(st.ParentPhone)
}

// ClassService manages class records.
type ClassService interface {
	List(ctx context.Context) ([]*domain.Class, error)
	Create(ctx context.Context, class *domain.Class) (*domain.Class, error)
	Delete(ctx context.Context, id string) error
}

type classService struct {
	repo domain.ClassRepository
}

func NewClassService(repo domain.ClassRepository) ClassService {
	return &classService{repo: repo}
}

func (s *classService) List(ctx context.Context) ([]*domain.Class, error) {
	return s.repo.ListClasses(ctx)
}

func (s *classService) Create(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	class.Name = strings.TrimSpace(class.Name)
	class.Teacher = strings.TrimSpace(class.Teacher)
	if class.Name == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("name")}
	}
	if err := s.repo.CreateClass(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *classService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteClass(ctx, id)
}
