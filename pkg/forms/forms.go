// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package forms turns user-typed entity forms into backend mutations.
//
// A form is a struct of strings exactly as the user typed them, with
// validate tags. Submission runs in a fixed order:
//
//  1. Local validation (validator/v10). Failures surface per field as
//     *apierr.ValidationError and no request is sent.
//  2. Normalization: decimal commas become dots, blank foreign keys
//     become null, dates become the wire format.
//  3. Create or update, depending on whether an edit is in progress.
//  4. On success: the editing state clears and the invalidation bus
//     fans out. On failure the editing state is kept, so the user can
//     fix the form and resubmit, and server field errors pass through
//     verbatim.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/miinsurtech/corredor/pkg/apierr"
	"github.com/miinsurtech/corredor/pkg/entity"
)

// Form is one submittable entity form.
type Form interface {
	// EntityType names the collection the form belongs to.
	EntityType() entity.Type

	// Payload normalizes the typed values into the wire shape.
	// Implementations may assume validation already passed.
	Payload() (map[string]any, error)
}

// Backend is the mutation surface the orchestrator drives;
// *api.Client satisfies it.
type Backend interface {
	Create(ctx context.Context, typ entity.Type, payload map[string]any, out any) error
	Update(ctx context.Context, typ entity.Type, id int64, payload map[string]any, out any) error
	Delete(ctx context.Context, typ entity.Type, id int64) error
}

// Notifier fans out after a successful mutation; *invalidation.Bus
// satisfies it.
type Notifier interface {
	Notify(ctx context.Context, source entity.Type) error
}

// Orchestrator validates, normalizes, and submits forms. Safe for
// concurrent use, though in practice one form is edited at a time.
type Orchestrator struct {
	backend  Backend
	notifier Notifier
	validate *validator.Validate
	logger   *slog.Logger

	mu      sync.Mutex
	editing map[entity.Type]int64
}

// Config wires an Orchestrator.
type Config struct {
	// Backend performs the mutations. Required.
	Backend Backend

	// Notifier receives the source type after each successful
	// mutation. Nil disables cascades.
	Notifier Notifier

	// Logger receives submission events. Nil discards.
	Logger *slog.Logger
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the wire field name, not the Go one.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("field"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Orchestrator{
		backend:  cfg.Backend,
		notifier: cfg.Notifier,
		validate: v,
		logger:   logger,
		editing:  map[entity.Type]int64{},
	}, nil
}

// StartEdit marks id of typ as being edited; the next Submit for typ
// becomes an update of that record.
func (o *Orchestrator) StartEdit(typ entity.Type, id int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.editing[typ] = id
}

// Editing returns the record under edit for typ, if any.
func (o *Orchestrator) Editing(typ entity.Type) (int64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id, ok := o.editing[typ]
	return id, ok
}

// CancelEdit abandons the edit for typ without submitting.
func (o *Orchestrator) CancelEdit(typ entity.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.editing, typ)
}

// Submit validates and submits f, decoding the saved record into out
// (pass nil to discard). Whether it creates or updates depends on
// StartEdit.
func (o *Orchestrator) Submit(ctx context.Context, f Form, out any) error {
	typ := f.EntityType()

	if err := o.runValidation(f); err != nil {
		return err
	}

	payload, err := f.Payload()
	if err != nil {
		// Normalization failures are still local validation: nothing
		// was sent.
		if _, ok := apierr.AsValidation(err); ok {
			return err
		}
		return &apierr.ValidationError{Fields: []apierr.FieldError{{Message: err.Error()}}}
	}

	id, editing := o.Editing(typ)
	if editing {
		err = o.backend.Update(ctx, typ, id, payload, out)
	} else {
		err = o.backend.Create(ctx, typ, payload, out)
	}
	if err != nil {
		// Editing state survives failure so the user can resubmit.
		o.logger.Warn("submit failed", "entity", typ, "editing", editing, "error", err)
		return err
	}

	o.CancelEdit(typ)
	o.logger.Info("record saved", "entity", typ, "updated", editing)

	if o.notifier != nil {
		if err := o.notifier.Notify(ctx, typ); err != nil {
			// The save itself succeeded; a refresh failure is logged
			// but must not read as a failed submission.
			o.logger.Warn("cascade refresh failed", "entity", typ, "error", err)
		}
	}
	return nil
}

// Delete removes id of typ and fans out the cascades.
func (o *Orchestrator) Delete(ctx context.Context, typ entity.Type, id int64) error {
	if err := o.backend.Delete(ctx, typ, id); err != nil {
		return err
	}
	o.logger.Info("record deleted", "entity", typ, "id", id)

	if o.notifier != nil {
		if err := o.notifier.Notify(ctx, typ); err != nil {
			o.logger.Warn("cascade refresh failed", "entity", typ, "error", err)
		}
	}
	return nil
}

// runValidation maps validator failures into the shared taxonomy.
func (o *Orchestrator) runValidation(f Form) error {
	err := o.validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	fields := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierr.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return &apierr.ValidationError{Fields: fields}
}

// validationMessage renders one rule failure for terminal display.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un correo válido"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "es demasiado corto (mínimo " + fe.Param() + ")"
	case "max":
		return "es demasiado largo (máximo " + fe.Param() + ")"
	case "numeric":
		return "debe ser numérico"
	default:
		return "no es válido (" + fe.Tag() + ")"
	}
}
