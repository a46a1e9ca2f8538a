// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package forms

import (
	"github.com/miinsurtech/corredor/pkg/apierr"
	"github.com/miinsurtech/corredor/pkg/entity"
)

// The form structs hold values exactly as typed. The `field` tag names
// the wire field for validation messages; `validate` tags run before
// any normalization or network traffic.

// fieldErr wraps a normalization failure as a per-field validation
// error.
func fieldErr(field string, err error) error {
	return &apierr.ValidationError{Fields: []apierr.FieldError{{
		Field:   field,
		Message: err.Error(),
	}}}
}

// ClienteForm creates or updates a client.
type ClienteForm struct {
	Nombre          string `field:"nombre" validate:"required"`
	Apellido        string `field:"apellido" validate:"required"`
	Cedula          string `field:"cedula" validate:"required"`
	Telefono        string `field:"telefono"`
	Email           string `field:"email" validate:"required,email"`
	Direccion       string `field:"direccion"`
	FechaNacimiento string `field:"fecha_nacimiento"`
}

func (f ClienteForm) EntityType() entity.Type { return entity.TypeCliente }

func (f ClienteForm) Payload() (map[string]any, error) {
	nacimiento, err := OptionalDateValue(f.FechaNacimiento)
	if err != nil {
		return nil, fieldErr("fecha_nacimiento", err)
	}
	return map[string]any{
		"nombre":           f.Nombre,
		"apellido":         f.Apellido,
		"cedula":           f.Cedula,
		"telefono":         OptionalString(f.Telefono),
		"email":            f.Email,
		"direccion":        OptionalString(f.Direccion),
		"fecha_nacimiento": nacimiento,
	}, nil
}

// EmpresaForm creates or updates an insurance carrier.
type EmpresaForm struct {
	Nombre    string `field:"nombre" validate:"required"`
	RIF       string `field:"rif" validate:"required"`
	Direccion string `field:"direccion"`
	Telefono  string `field:"telefono"`
	Email     string `field:"email" validate:"omitempty,email"`
}

func (f EmpresaForm) EntityType() entity.Type { return entity.TypeEmpresaAseguradora }

func (f EmpresaForm) Payload() (map[string]any, error) {
	return map[string]any{
		"nombre":    f.Nombre,
		"rif":       f.RIF,
		"direccion": OptionalString(f.Direccion),
		"telefono":  OptionalString(f.Telefono),
		"email":     OptionalString(f.Email),
	}, nil
}

// AsesorForm creates or updates an advisor. The carrier is optional;
// an independent advisor leaves it blank.
type AsesorForm struct {
	Nombre               string `field:"nombre" validate:"required"`
	Apellido             string `field:"apellido" validate:"required"`
	Cedula               string `field:"cedula" validate:"required"`
	Telefono             string `field:"telefono"`
	Email                string `field:"email" validate:"required,email"`
	FechaContratacion    string `field:"fecha_contratacion" validate:"required"`
	EmpresaAseguradoraID string `field:"empresa_aseguradora_id"`
}

func (f AsesorForm) EntityType() entity.Type { return entity.TypeAsesor }

func (f AsesorForm) Payload() (map[string]any, error) {
	contratacion, err := DateValue(f.FechaContratacion)
	if err != nil {
		return nil, fieldErr("fecha_contratacion", err)
	}
	empresa, err := ForeignKeyValue(f.EmpresaAseguradoraID)
	if err != nil {
		return nil, fieldErr("empresa_aseguradora_id", err)
	}
	return map[string]any{
		"nombre":                 f.Nombre,
		"apellido":               f.Apellido,
		"cedula":                 f.Cedula,
		"telefono":               OptionalString(f.Telefono),
		"email":                  f.Email,
		"fecha_contratacion":     contratacion,
		"empresa_aseguradora_id": empresa,
	}, nil
}

// PolizaForm creates or updates a policy.
type PolizaForm struct {
	NumeroPoliza         string `field:"numero_poliza" validate:"required"`
	TipoPoliza           string `field:"tipo_poliza" validate:"required"`
	FechaInicio          string `field:"fecha_inicio" validate:"required"`
	FechaFin             string `field:"fecha_fin" validate:"required"`
	MontoAsegurado       string `field:"monto_asegurado" validate:"required"`
	Prima                string `field:"prima" validate:"required"`
	Estado               string `field:"estado" validate:"required,oneof=Activa Vencida Cancelada"`
	Observaciones        string `field:"observaciones"`
	ClienteID            string `field:"cliente_id" validate:"required"`
	EmpresaAseguradoraID string `field:"empresa_aseguradora_id" validate:"required"`
	AsesorID             string `field:"asesor_id"`
}

func (f PolizaForm) EntityType() entity.Type { return entity.TypePoliza }

func (f PolizaForm) Payload() (map[string]any, error) {
	inicio, err := DateValue(f.FechaInicio)
	if err != nil {
		return nil, fieldErr("fecha_inicio", err)
	}
	fin, err := DateValue(f.FechaFin)
	if err != nil {
		return nil, fieldErr("fecha_fin", err)
	}
	monto, err := DecimalValue(f.MontoAsegurado)
	if err != nil {
		return nil, fieldErr("monto_asegurado", err)
	}
	prima, err := DecimalValue(f.Prima)
	if err != nil {
		return nil, fieldErr("prima", err)
	}
	cliente, err := RequiredKeyValue(f.ClienteID)
	if err != nil {
		return nil, fieldErr("cliente_id", err)
	}
	empresa, err := RequiredKeyValue(f.EmpresaAseguradoraID)
	if err != nil {
		return nil, fieldErr("empresa_aseguradora_id", err)
	}
	asesor, err := ForeignKeyValue(f.AsesorID)
	if err != nil {
		return nil, fieldErr("asesor_id", err)
	}
	return map[string]any{
		"numero_poliza":          f.NumeroPoliza,
		"tipo_poliza":            f.TipoPoliza,
		"fecha_inicio":           inicio,
		"fecha_fin":              fin,
		"monto_asegurado":        monto,
		"prima":                  prima,
		"estado":                 f.Estado,
		"observaciones":          OptionalString(f.Observaciones),
		"cliente_id":             cliente,
		"empresa_aseguradora_id": empresa,
		"asesor_id":              asesor,
	}, nil
}

// ReclamacionForm creates or updates a claim.
type ReclamacionForm struct {
	PolizaID         string `field:"poliza_id" validate:"required"`
	ClienteID        string `field:"cliente_id" validate:"required"`
	FechaReclamacion string `field:"fecha_reclamacion" validate:"required"`
	Descripcion      string `field:"descripcion" validate:"required"`
	Estado           string `field:"estado" validate:"required,oneof=Pendiente Aprobada Rechazada Cerrada"`
	MontoReclamado   string `field:"monto_reclamado"`
	MontoAprobado    string `field:"monto_aprobado"`
	FechaResolucion  string `field:"fecha_resolucion"`
	Observaciones    string `field:"observaciones"`
}

func (f ReclamacionForm) EntityType() entity.Type { return entity.TypeReclamacion }

func (f ReclamacionForm) Payload() (map[string]any, error) {
	poliza, err := RequiredKeyValue(f.PolizaID)
	if err != nil {
		return nil, fieldErr("poliza_id", err)
	}
	cliente, err := RequiredKeyValue(f.ClienteID)
	if err != nil {
		return nil, fieldErr("cliente_id", err)
	}
	fecha, err := DateValue(f.FechaReclamacion)
	if err != nil {
		return nil, fieldErr("fecha_reclamacion", err)
	}
	reclamado, err := OptionalDecimalValue(f.MontoReclamado)
	if err != nil {
		return nil, fieldErr("monto_reclamado", err)
	}
	aprobado, err := OptionalDecimalValue(f.MontoAprobado)
	if err != nil {
		return nil, fieldErr("monto_aprobado", err)
	}
	resolucion, err := OptionalDateValue(f.FechaResolucion)
	if err != nil {
		return nil, fieldErr("fecha_resolucion", err)
	}
	return map[string]any{
		"poliza_id":         poliza,
		"cliente_id":        cliente,
		"fecha_reclamacion": fecha,
		"descripcion":       f.Descripcion,
		"estado":            f.Estado,
		"monto_reclamado":   reclamado,
		"monto_aprobado":    aprobado,
		"fecha_resolucion":  resolucion,
		"observaciones":     OptionalString(f.Observaciones),
	}, nil
}

// ComisionForm creates or updates an advisor commission.
type ComisionForm struct {
	PolizaID           string `field:"poliza_id" validate:"required"`
	AsesorID           string `field:"asesor_id" validate:"required"`
	Monto              string `field:"monto" validate:"required"`
	PorcentajeComision string `field:"porcentaje_comision" validate:"required"`
	FechaCalculo       string `field:"fecha_calculo" validate:"required"`
	EstatusPago        string `field:"estatus_pago" validate:"required,oneof=Pendiente Pagado Anulado"`
	FechaPago          string `field:"fecha_pago"`
	TipoComision       string `field:"tipo_comision" validate:"required"`
	Observaciones      string `field:"observaciones"`
}

func (f ComisionForm) EntityType() entity.Type { return entity.TypeComision }

func (f ComisionForm) Payload() (map[string]any, error) {
	poliza, err := RequiredKeyValue(f.PolizaID)
	if err != nil {
		return nil, fieldErr("poliza_id", err)
	}
	asesor, err := RequiredKeyValue(f.AsesorID)
	if err != nil {
		return nil, fieldErr("asesor_id", err)
	}
	monto, err := DecimalValue(f.Monto)
	if err != nil {
		return nil, fieldErr("monto", err)
	}
	porcentaje, err := DecimalValue(f.PorcentajeComision)
	if err != nil {
		return nil, fieldErr("porcentaje_comision", err)
	}
	calculo, err := DateValue(f.FechaCalculo)
	if err != nil {
		return nil, fieldErr("fecha_calculo", err)
	}
	pago, err := OptionalDateValue(f.FechaPago)
	if err != nil {
		return nil, fieldErr("fecha_pago", err)
	}
	return map[string]any{
		"poliza_id":           poliza,
		"asesor_id":           asesor,
		"monto":               monto,
		"porcentaje_comision": porcentaje,
		"fecha_calculo":       calculo,
		"estatus_pago":        f.EstatusPago,
		"fecha_pago":          pago,
		"tipo_comision":       f.TipoComision,
		"observaciones":       OptionalString(f.Observaciones),
	}, nil
}
