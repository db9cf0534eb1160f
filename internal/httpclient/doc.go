// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package httpclient issues requests against the RDE control plane. All
// calls share a base URL and a fixed header set; GET requests are retried
// against transient failures, other methods are sent once. A request that
// never produced a response is reported as a network error naming the URL.
package httpclient
