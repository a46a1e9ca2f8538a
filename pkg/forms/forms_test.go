// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package forms

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/miinsurtech/corredor/pkg/apierr"
	"github.com/miinsurtech/corredor/pkg/entity"
)

// fakeBackend records mutations and can be told to fail.
type fakeBackend struct {
	mu      sync.Mutex
	creates []map[string]any
	updates []map[string]any
	deletes []int64
	lastID  int64
	fail    error
}

func (b *fakeBackend) Create(ctx context.Context, typ entity.Type, payload map[string]any, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.creates = append(b.creates, payload)
	return nil
}

func (b *fakeBackend) Update(ctx context.Context, typ entity.Type, id int64, payload map[string]any, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.updates = append(b.updates, payload)
	b.lastID = id
	return nil
}

func (b *fakeBackend) Delete(ctx context.Context, typ entity.Type, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.deletes = append(b.deletes, id)
	return nil
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.creates) + len(b.updates) + len(b.deletes)
}

// fakeNotifier records Notify sources.
type fakeNotifier struct {
	mu      sync.Mutex
	sources []entity.Type
	fail    error
}

func (n *fakeNotifier) Notify(ctx context.Context, source entity.Type) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sources = append(n.sources, source)
	return n.fail
}

func newOrchestrator(t *testing.T, b Backend, n Notifier) *Orchestrator {
	t.Helper()
	o, err := New(Config{Backend: b, Notifier: n})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return o
}

func validCliente() ClienteForm {
	return ClienteForm{
		Nombre:   "Ana",
		Apellido: "Pérez",
		Cedula:   "V-12345678",
		Email:    "ana@example.com",
	}
}

// =============================================================================
// Validation before network
// =============================================================================

func TestSubmit_ValidationFailure_NoNetworkCall(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	err := o.Submit(context.Background(), ClienteForm{}, nil)

	verr, ok := apierr.AsValidation(err)
	if !ok {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if len(verr.Fields) == 0 {
		t.Error("ValidationError should list the failing fields")
	}
	if b.calls() != 0 {
		t.Error("validation failure must not reach the backend")
	}
}

func TestSubmit_ValidationFieldNamesAreWireNames(t *testing.T) {
	o := newOrchestrator(t, &fakeBackend{}, nil)

	f := validCliente()
	f.Email = "not-an-email"
	err := o.Submit(context.Background(), f, nil)

	verr, ok := apierr.AsValidation(err)
	if !ok {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "email" {
		t.Errorf("Fields = %+v, want one error on field email", verr.Fields)
	}
}

func TestSubmit_OneofValidation(t *testing.T) {
	o := newOrchestrator(t, &fakeBackend{}, nil)

	f := validPoliza()
	f.Estado = "Suspendida"
	err := o.Submit(context.Background(), f, nil)

	verr, ok := apierr.AsValidation(err)
	if !ok {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "estado" {
		t.Errorf("Fields = %+v, want estado", verr.Fields)
	}
}

func TestSubmit_NormalizationFailure_NoNetworkCall(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	f := validPoliza()
	f.FechaInicio = "not a date"
	err := o.Submit(context.Background(), f, nil)

	verr, ok := apierr.AsValidation(err)
	if !ok {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if verr.Fields[0].Field != "fecha_inicio" {
		t.Errorf("Fields = %+v, want fecha_inicio", verr.Fields)
	}
	if b.calls() != 0 {
		t.Error("normalization failure must not reach the backend")
	}
}

// =============================================================================
// Create vs update and editing state
// =============================================================================

func TestSubmit_CreatesWhenNotEditing(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(b.creates) != 1 || len(b.updates) != 0 {
		t.Errorf("creates=%d updates=%d, want 1/0", len(b.creates), len(b.updates))
	}
}

func TestSubmit_UpdatesWhenEditing(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	o.StartEdit(entity.TypeCliente, 42)
	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(b.updates) != 1 || b.lastID != 42 {
		t.Errorf("updates=%d lastID=%d, want 1/42", len(b.updates), b.lastID)
	}
}

func TestSubmit_Success_ClearsEditing(t *testing.T) {
	o := newOrchestrator(t, &fakeBackend{}, nil)

	o.StartEdit(entity.TypeCliente, 42)
	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if _, editing := o.Editing(entity.TypeCliente); editing {
		t.Error("editing state must clear after a successful submit")
	}
}

func TestSubmit_Failure_KeepsEditing(t *testing.T) {
	b := &fakeBackend{fail: errors.New("backend down")}
	o := newOrchestrator(t, b, nil)

	o.StartEdit(entity.TypeCliente, 42)
	if err := o.Submit(context.Background(), validCliente(), nil); err == nil {
		t.Fatal("Submit() should fail")
	}
	id, editing := o.Editing(entity.TypeCliente)
	if !editing || id != 42 {
		t.Error("editing state must survive a failed submit")
	}
}

func TestSubmit_EditingIsPerEntityType(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	o.StartEdit(entity.TypePoliza, 7)
	// A client submit is unaffected by the policy edit in progress.
	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(b.creates) != 1 {
		t.Error("client submit should be a create")
	}
	if _, editing := o.Editing(entity.TypePoliza); !editing {
		t.Error("policy edit must survive a client submit")
	}
}

func TestCancelEdit(t *testing.T) {
	o := newOrchestrator(t, &fakeBackend{}, nil)
	o.StartEdit(entity.TypeCliente, 1)
	o.CancelEdit(entity.TypeCliente)
	if _, editing := o.Editing(entity.TypeCliente); editing {
		t.Error("CancelEdit should clear the edit")
	}
}

// =============================================================================
// Server errors pass through
// =============================================================================

func TestSubmit_ServerFieldErrorsVerbatim(t *testing.T) {
	serverErr := &apierr.APIError{
		Status: http.StatusUnprocessableEntity,
		Detail: "value is not a valid email address",
		Fields: []apierr.FieldError{{Field: "email", Message: "value is not a valid email address"}},
	}
	b := &fakeBackend{fail: serverErr}
	o := newOrchestrator(t, b, nil)

	err := o.Submit(context.Background(), validCliente(), nil)

	apiErr, ok := apierr.AsAPI(err)
	if !ok {
		t.Fatalf("want APIError, got %T", err)
	}
	if len(apiErr.Fields) != 1 || apiErr.Fields[0].Message != "value is not a valid email address" {
		t.Errorf("Fields = %+v, want the server's message untouched", apiErr.Fields)
	}
}

// =============================================================================
// Cascades
// =============================================================================

func TestSubmit_Success_NotifiesBus(t *testing.T) {
	n := &fakeNotifier{}
	o := newOrchestrator(t, &fakeBackend{}, n)

	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(n.sources) != 1 || n.sources[0] != entity.TypeCliente {
		t.Errorf("Notify sources = %v, want [cliente]", n.sources)
	}
}

func TestSubmit_Failure_NoNotify(t *testing.T) {
	n := &fakeNotifier{}
	b := &fakeBackend{fail: errors.New("boom")}
	o := newOrchestrator(t, b, n)

	_ = o.Submit(context.Background(), validCliente(), nil)
	if len(n.sources) != 0 {
		t.Error("a failed submit must not fan out")
	}
}

func TestSubmit_NotifyFailureDoesNotFailSubmit(t *testing.T) {
	n := &fakeNotifier{fail: errors.New("refresh failed")}
	o := newOrchestrator(t, &fakeBackend{}, n)

	if err := o.Submit(context.Background(), validCliente(), nil); err != nil {
		t.Errorf("a cascade failure must not fail the save, got %v", err)
	}
}

func TestDelete_NotifiesBus(t *testing.T) {
	n := &fakeNotifier{}
	b := &fakeBackend{}
	o := newOrchestrator(t, b, n)

	if err := o.Delete(context.Background(), entity.TypePoliza, 9); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(b.deletes) != 1 || b.deletes[0] != 9 {
		t.Errorf("deletes = %v, want [9]", b.deletes)
	}
	if len(n.sources) != 1 || n.sources[0] != entity.TypePoliza {
		t.Errorf("Notify sources = %v, want [poliza]", n.sources)
	}
}

func TestDelete_FailureNoNotify(t *testing.T) {
	n := &fakeNotifier{}
	b := &fakeBackend{fail: errors.New("conflict")}
	o := newOrchestrator(t, b, n)

	if err := o.Delete(context.Background(), entity.TypePoliza, 9); err == nil {
		t.Fatal("Delete() should fail")
	}
	if len(n.sources) != 0 {
		t.Error("a failed delete must not fan out")
	}
}

// =============================================================================
// Payload normalization end to end
// =============================================================================

func validPoliza() PolizaForm {
	return PolizaForm{
		NumeroPoliza:         "P-2025-001",
		TipoPoliza:           "Automóvil",
		FechaInicio:          "01/01/2025",
		FechaFin:             "2025-12-31",
		MontoAsegurado:       "25.000,00",
		Prima:                "1.250,50",
		Estado:               "Activa",
		ClienteID:            "3",
		EmpresaAseguradoraID: "1",
		AsesorID:             "",
	}
}

func TestPolizaForm_PayloadNormalization(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	if err := o.Submit(context.Background(), validPoliza(), nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	p := b.creates[0]
	if p["fecha_inicio"] != "2025-01-01" {
		t.Errorf("fecha_inicio = %v, want 2025-01-01", p["fecha_inicio"])
	}
	if p["monto_asegurado"] != 25000.0 {
		t.Errorf("monto_asegurado = %v, want 25000", p["monto_asegurado"])
	}
	if p["prima"] != 1250.5 {
		t.Errorf("prima = %v, want 1250.5", p["prima"])
	}
	if p["cliente_id"] != int64(3) {
		t.Errorf("cliente_id = %v, want 3", p["cliente_id"])
	}
	if p["asesor_id"] != nil {
		t.Errorf("blank asesor_id = %v, want nil", p["asesor_id"])
	}
	if p["observaciones"] != nil {
		t.Errorf("blank observaciones = %v, want nil", p["observaciones"])
	}
}

func TestClienteForm_OptionalFields(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	f := validCliente()
	f.Telefono = "0412-5551234"
	f.FechaNacimiento = "15/06/1990"
	if err := o.Submit(context.Background(), f, nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	p := b.creates[0]
	if p["telefono"] != "0412-5551234" {
		t.Errorf("telefono = %v", p["telefono"])
	}
	if p["fecha_nacimiento"] != "1990-06-15" {
		t.Errorf("fecha_nacimiento = %v, want 1990-06-15", p["fecha_nacimiento"])
	}
	if p["direccion"] != nil {
		t.Errorf("blank direccion = %v, want nil", p["direccion"])
	}
}

func TestComisionForm_Payload(t *testing.T) {
	b := &fakeBackend{}
	o := newOrchestrator(t, b, nil)

	f := ComisionForm{
		PolizaID:           "4",
		AsesorID:           "2",
		Monto:              "125,00",
		PorcentajeComision: "10",
		FechaCalculo:       "2025-08-01",
		EstatusPago:        "Pendiente",
		TipoComision:       "Venta",
	}
	if err := o.Submit(context.Background(), f, nil); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	p := b.creates[0]
	if p["monto"] != 125.0 {
		t.Errorf("monto = %v, want 125", p["monto"])
	}
	if p["fecha_pago"] != nil {
		t.Errorf("blank fecha_pago = %v, want nil", p["fecha_pago"])
	}
}
