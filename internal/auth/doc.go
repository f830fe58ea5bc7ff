// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package auth constructs Entra token credentials for the exporter.
// The core pipeline never creates credentials itself; it consumes the
// azcore.TokenCredential produced here as an opaque session.
package auth
