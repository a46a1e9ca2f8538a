// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

// Well-known keys. These match the names the web console used in
// browser localStorage, so a future import of exported browser state
// maps one-to-one.
const (
	// KeyAccessToken holds the bearer token for the current session.
	KeyAccessToken = "insurtech_access_token"

	// KeyCurrentUser holds the JSON-serialized authenticated user.
	KeyCurrentUser = "insurtech_current_user"

	// Display preferences.
	KeyLanguage       = "selectedLanguage"
	KeyCurrencySymbol = "currencySymbol"
	KeyDateFormat     = "dateFormat"
	KeyCountry        = "selectedCountry"

	// KeyLicense holds the last activated license key.
	KeyLicense = "licenseKey"
)
