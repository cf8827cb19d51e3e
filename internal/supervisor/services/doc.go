// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package services adapts Cropwise components to suture.Service.
//
// Every service blocks in Serve until its context is canceled and returns
// an error only for failures the supervisor should restart it for.
package services
