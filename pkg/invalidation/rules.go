// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package invalidation

import "github.com/miinsurtech/corredor/pkg/entity"

// Rules maps a mutated entity type to the other collections whose
// cached pages may now be stale. The source's own collection is not
// listed; its controller is refreshed directly by whoever performed
// the mutation.
type Rules map[entity.Type][]entity.Type

// DefaultRules is the cascade table for the brokerage data model.
//
// The derivations follow the foreign keys: policies embed client,
// carrier and advisor records; claims embed policy and client;
// commissions embed policy and advisor. Mutating a referenced record
// can change what those denormalized reads display.
func DefaultRules() Rules {
	return Rules{
		entity.TypeCliente:            {entity.TypePoliza, entity.TypeReclamacion},
		entity.TypePoliza:             {entity.TypeReclamacion, entity.TypeComision},
		entity.TypeEmpresaAseguradora: {entity.TypePoliza, entity.TypeAsesor},
		entity.TypeAsesor:             {entity.TypePoliza, entity.TypeComision},
		entity.TypeReclamacion:        {},
		entity.TypeComision:           {},
	}
}

// SummarySources lists the entity types whose mutations invalidate the
// statistics summary: every one, since the summary aggregates them
// all.
func SummarySources() []entity.Type {
	return entity.All()
}

// ExpirationSources lists the entity types whose mutations can change
// the upcoming-expirations view. Only policy data feeds it; clients
// matter because policies denormalize them, and claim resolutions can
// flip a policy's state.
func ExpirationSources() []entity.Type {
	return []entity.Type{entity.TypeCliente, entity.TypePoliza, entity.TypeReclamacion}
}
