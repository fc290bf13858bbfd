package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"taskmanager/internal/apperr"
	"taskmanager/internal/models"
)

// TaskInput is the writable part of a task as submitted by clients.
type TaskInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,taskstatus"`
	Deadline    string `json:"deadline" validate:"required,rfc3339"`
}

// SubTaskInput is the writable part of a subtask. Updates use the same
// shape and rules: omitted fields are reset, not kept.
type SubTaskInput struct {
	TaskID      *int64 `json:"task_id" validate:"omitempty,gt=0"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,taskstatus"`
	Deadline    string `json:"deadline" validate:"required,rfc3339"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return models.TaskStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "taskstatus":
		return fmt.Sprintf("%q is not a valid choice", fe.Value())
	case "rfc3339":
		return "datetime has wrong format, use RFC 3339 (2006-01-02T15:04:05Z07:00)"
	case "gt":
		return "must be a positive id"
	}
	return "invalid value"
}

func structErrors(in interface{}) *apperr.ValidationError {
	verr := apperr.NewValidationError()
	err := validate.Struct(in)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("non_field_errors", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func normalizeStatus(s string) models.TaskStatus {
	if s == "" {
		return models.StatusNew
	}
	return models.TaskStatus(s)
}

// ValidateTaskInput checks a submitted task and converts it to a model
// without touching storage.
func ValidateTaskInput(in TaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	in.Deadline = strings.TrimSpace(in.Deadline)

	if err := structErrors(in).OrNil(); err != nil {
		return nil, err
	}
	deadline, _ := time.Parse(time.RFC3339, in.Deadline)
	return &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      normalizeStatus(in.Status),
		Deadline:    deadline,
	}, nil
}

// ValidateSubTaskInput is the subtask counterpart of ValidateTaskInput.
// The parent reference is only checked for shape here.
func ValidateSubTaskInput(in SubTaskInput) (*models.SubTask, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	in.Deadline = strings.TrimSpace(in.Deadline)

	if err := structErrors(in).OrNil(); err != nil {
		return nil, err
	}
	deadline, _ := time.Parse(time.RFC3339, in.Deadline)
	return &models.SubTask{
		TaskID:      in.TaskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      normalizeStatus(in.Status),
		Deadline:    deadline,
	}, nil
}
