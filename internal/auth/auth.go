// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package auth

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// NewCredential creates a token credential for ARM calls.
// When interactive is true a browser login is attempted first, falling back
// to the default credential chain (environment, workload identity, managed
// identity, Azure CLI) if the browser flow cannot be constructed.
// tenantID may be empty, in which case the credential's home tenant is used.
func NewCredential(interactive bool, tenantID string) (azcore.TokenCredential, error) {
	if interactive {
		cred, err := azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
			TenantID: tenantID,
		})
		if err == nil {
			return cred, nil
		}
	}
	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("auth.NewCredential: failed to create default credential: %w", err)
	}
	return cred, nil
}
