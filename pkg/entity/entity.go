// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package entity declares the typed records exchanged with the
// brokerage backend and the resource table mapping each entity type to
// its REST paths.
//
// Field names mirror the backend's wire format exactly (Spanish,
// snake_case); nullable columns are pointers so "absent" and "zero"
// stay distinguishable after a round-trip.
package entity

import (
	"fmt"
	"time"
)

// Type identifies one of the six record kinds the console manages.
type Type string

const (
	TypeCliente            Type = "cliente"
	TypePoliza             Type = "poliza"
	TypeReclamacion        Type = "reclamacion"
	TypeEmpresaAseguradora Type = "empresa_aseguradora"
	TypeAsesor             Type = "asesor"
	TypeComision           Type = "comision"
)

// All lists every entity type in display order.
func All() []Type {
	return []Type{
		TypeCliente,
		TypePoliza,
		TypeReclamacion,
		TypeEmpresaAseguradora,
		TypeAsesor,
		TypeComision,
	}
}

// Valid reports whether t is one of the known entity types.
func (t Type) Valid() bool {
	switch t {
	case TypeCliente, TypePoliza, TypeReclamacion,
		TypeEmpresaAseguradora, TypeAsesor, TypeComision:
		return true
	}
	return false
}

// CollectionPath returns the list/create path for t.
//
// The backend mounts the poliza router under a doubled prefix; the
// quirk is load-bearing and preserved here.
func (t Type) CollectionPath() string {
	switch t {
	case TypeCliente:
		return "/clientes/"
	case TypePoliza:
		return "/polizas/polizas/"
	case TypeReclamacion:
		return "/reclamaciones/"
	case TypeEmpresaAseguradora:
		return "/empresas_aseguradoras/"
	case TypeAsesor:
		return "/asesores/"
	case TypeComision:
		return "/comisiones/"
	default:
		return ""
	}
}

// ItemPath returns the update/delete path for one record of t.
//
// Comisiones are listed at /comisiones/ but mutated under a doubled
// prefix, matching the backend's router layout.
func (t Type) ItemPath(id int64) string {
	switch t {
	case TypeComision:
		return fmt.Sprintf("/comisiones/comisiones/%d", id)
	default:
		return fmt.Sprintf("%s%d", t.CollectionPath(), id)
	}
}

// Policy lifecycle states.
const (
	EstadoPolizaActiva    = "Activa"
	EstadoPolizaVencida   = "Vencida"
	EstadoPolizaCancelada = "Cancelada"
)

// Claim lifecycle states.
const (
	EstadoReclamacionPendiente = "Pendiente"
	EstadoReclamacionAprobada  = "Aprobada"
	EstadoReclamacionRechazada = "Rechazada"
	EstadoReclamacionCerrada   = "Cerrada"
)

// Commission payment states.
const (
	EstatusPagoPendiente = "Pendiente"
	EstatusPagoPagado    = "Pagado"
	EstatusPagoAnulado   = "Anulado"
)

// Cliente is a brokerage client.
type Cliente struct {
	ID              int64      `json:"id"`
	Nombre          string     `json:"nombre"`
	Apellido        string     `json:"apellido"`
	Cedula          string     `json:"cedula"`
	Telefono        *string    `json:"telefono"`
	Email           string     `json:"email"`
	Direccion       *string    `json:"direccion"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento"`
	FechaRegistro   time.Time  `json:"fecha_registro"`
}

// EmpresaAseguradora is an insurance carrier.
type EmpresaAseguradora struct {
	ID        int64   `json:"id"`
	Nombre    string  `json:"nombre"`
	RIF       string  `json:"rif"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
}

// Asesor is an advisor, optionally attached to a carrier. The backend
// denormalizes the carrier record into reads.
type Asesor struct {
	ID                   int64               `json:"id"`
	Nombre               string              `json:"nombre"`
	Apellido             string              `json:"apellido"`
	Cedula               string              `json:"cedula"`
	Telefono             *string             `json:"telefono"`
	Email                string              `json:"email"`
	FechaContratacion    time.Time           `json:"fecha_contratacion"`
	EmpresaAseguradoraID *int64              `json:"empresa_aseguradora_id"`
	EmpresaAseguradora   *EmpresaAseguradora `json:"empresa_aseguradora,omitempty"`
}

// Poliza is an insurance policy. ClienteID and EmpresaAseguradoraID are
// mandatory foreign keys; AsesorID is optional.
type Poliza struct {
	ID                   int64     `json:"id"`
	NumeroPoliza         string    `json:"numero_poliza"`
	TipoPoliza           string    `json:"tipo_poliza"`
	FechaInicio          time.Time `json:"fecha_inicio"`
	FechaFin             time.Time `json:"fecha_fin"`
	MontoAsegurado       float64   `json:"monto_asegurado"`
	Prima                float64   `json:"prima"`
	Estado               string    `json:"estado"`
	Observaciones        *string   `json:"observaciones"`
	ClienteID            int64     `json:"cliente_id"`
	EmpresaAseguradoraID int64     `json:"empresa_aseguradora_id"`
	AsesorID             *int64    `json:"asesor_id"`
	FechaCreacion        time.Time `json:"fecha_creacion"`

	// Denormalized relations, present on reads that expand them.
	Cliente            *Cliente            `json:"cliente,omitempty"`
	Asesor             *Asesor             `json:"asesor,omitempty"`
	EmpresaAseguradora *EmpresaAseguradora `json:"empresa_aseguradora,omitempty"`
}

// Reclamacion is a claim filed against a policy.
type Reclamacion struct {
	ID               int64      `json:"id"`
	PolizaID         int64      `json:"poliza_id"`
	ClienteID        int64      `json:"cliente_id"`
	FechaReclamacion time.Time  `json:"fecha_reclamacion"`
	Descripcion      string     `json:"descripcion"`
	Estado           string     `json:"estado"`
	MontoReclamado   *float64   `json:"monto_reclamado"`
	MontoAprobado    *float64   `json:"monto_aprobado"`
	FechaResolucion  *time.Time `json:"fecha_resolucion"`
	Observaciones    *string    `json:"observaciones"`
}

// Comision is an advisor commission computed over a policy.
type Comision struct {
	ID                  int64      `json:"id"`
	PolizaID            int64      `json:"poliza_id"`
	AsesorID            int64      `json:"asesor_id"`
	Monto               float64    `json:"monto"`
	PorcentajeComision  float64    `json:"porcentaje_comision"`
	FechaCalculo        time.Time  `json:"fecha_calculo"`
	EstatusPago         string     `json:"estatus_pago"`
	FechaPago           *time.Time `json:"fecha_pago"`
	TipoComision        string     `json:"tipo_comision"`
	Observaciones       *string    `json:"observaciones"`
}

// Usuario is the authenticated console user.
type Usuario struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive int    `json:"is_active"`
}

// StatisticsSummary is the dashboard aggregate. It has no single owning
// entity type; mutations to most entities invalidate it.
type StatisticsSummary struct {
	TotalClientes             int            `json:"total_clientes"`
	TotalPolizas              int            `json:"total_polizas"`
	TotalReclamaciones        int            `json:"total_reclamaciones"`
	TotalEmpresasAseguradoras int            `json:"total_empresas_aseguradoras"`
	TotalAsesores             int            `json:"total_asesores"`
	TotalComisiones           float64        `json:"total_comisiones"`
	PolizasPorEstado          map[string]int `json:"polizas_por_estado"`
	ReclamacionesPorEstado    map[string]int `json:"reclamaciones_por_estado"`
	TotalPrimasActivas        float64        `json:"total_primas_activas"`
	TotalMontoReclamado       float64        `json:"total_monto_reclamado"`
	TotalMontoAprobado        float64        `json:"total_monto_aprobado"`
}

// LicenseStatus reports the account's licensing window.
type LicenseStatus struct {
	IsActive      bool       `json:"is_active"`
	IsTrial       bool       `json:"is_trial"`
	StartDate     *time.Time `json:"license_start_date"`
	EndDate       *time.Time `json:"license_end_date"`
	DaysRemaining int        `json:"days_remaining"`
}
