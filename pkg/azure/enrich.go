// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/Azure/azresourcedocs/to"
)

// Resource type strings with a detail fetcher. Comparison is case-insensitive
// because ARM is not consistent about provider namespace casing.
const (
	TypeVirtualMachine   = "Microsoft.Compute/virtualMachines"
	TypeVirtualNetwork   = "Microsoft.Network/virtualNetworks"
	TypeNetworkInterface = "Microsoft.Network/networkInterfaces"
	TypeStorageAccount   = "Microsoft.Storage/storageAccounts"
	TypeSQLServer        = "Microsoft.Sql/servers"
)

type detailFetcher func(ctx context.Context, res *RawResource) (any, error)

func defaultDetailFetchers(cf *ClientFactory) map[string]detailFetcher {
	return map[string]detailFetcher{
		strings.ToLower(TypeVirtualMachine):   cf.virtualMachineDetails,
		strings.ToLower(TypeVirtualNetwork):   cf.virtualNetworkDetails,
		strings.ToLower(TypeNetworkInterface): cf.networkInterfaceDetails,
		strings.ToLower(TypeStorageAccount):   cf.storageAccountDetails,
		strings.ToLower(TypeSQLServer):        cf.sqlServerDetails,
	}
}

// Enrich implements API. Types without a fetcher are left untouched.
func (cf *ClientFactory) Enrich(ctx context.Context, res *RawResource) error {
	fetch, ok := cf.detailFetchers[strings.ToLower(res.Type)]
	if !ok {
		return nil
	}
	details, err := fetch(ctx, res)
	if err != nil {
		return fmt.Errorf("azure: fetching details for %s: %w", res.ID, err)
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("azure: encoding details for %s: %w", res.ID, err)
	}
	res.Payload = payload
	return nil
}

type vmDetails struct {
	VMSize            string   `json:"vmSize"`
	OSType            string   `json:"osType"`
	AdminUsername     string   `json:"adminUsername"`
	NetworkInterfaces []string `json:"networkInterfaces"`
}

func (cf *ClientFactory) virtualMachineDetails(ctx context.Context, res *RawResource) (any, error) {
	client, err := armcompute.NewVirtualMachinesClient(res.SubscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, res.ResourceGroup, res.Name, nil)
	if err != nil {
		return nil, err
	}
	d := vmDetails{}
	props := resp.Properties
	if props == nil {
		return d, nil
	}
	if props.HardwareProfile != nil && props.HardwareProfile.VMSize != nil {
		d.VMSize = string(*props.HardwareProfile.VMSize)
	}
	if props.StorageProfile != nil && props.StorageProfile.OSDisk != nil && props.StorageProfile.OSDisk.OSType != nil {
		d.OSType = string(*props.StorageProfile.OSDisk.OSType)
	}
	if props.OSProfile != nil {
		d.AdminUsername = to.ValOrZero(props.OSProfile.AdminUsername)
	}
	if props.NetworkProfile != nil {
		for _, nic := range props.NetworkProfile.NetworkInterfaces {
			if nic != nil && nic.ID != nil {
				d.NetworkInterfaces = append(d.NetworkInterfaces, *nic.ID)
			}
		}
	}
	return d, nil
}

type subnetDetails struct {
	Name                 string   `json:"name"`
	AddressPrefix        string   `json:"addressPrefix"`
	NetworkSecurityGroup string   `json:"networkSecurityGroup,omitempty"`
	RouteTable           string   `json:"routeTable,omitempty"`
	ServiceEndpoints     []string `json:"serviceEndpoints,omitempty"`
	Delegations          []string `json:"delegations,omitempty"`
}

type vnetDetails struct {
	AddressSpace []string        `json:"addressSpace"`
	Subnets      []subnetDetails `json:"subnets"`
}

func (cf *ClientFactory) virtualNetworkDetails(ctx context.Context, res *RawResource) (any, error) {
	client, err := armnetwork.NewVirtualNetworksClient(res.SubscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, res.ResourceGroup, res.Name, nil)
	if err != nil {
		return nil, err
	}
	d := vnetDetails{}
	props := resp.Properties
	if props == nil {
		return d, nil
	}
	if props.AddressSpace != nil {
		for _, p := range props.AddressSpace.AddressPrefixes {
			if p != nil {
				d.AddressSpace = append(d.AddressSpace, *p)
			}
		}
	}
	for _, sn := range props.Subnets {
		if sn == nil {
			continue
		}
		sd := subnetDetails{Name: to.ValOrZero(sn.Name)}
		if sp := sn.Properties; sp != nil {
			sd.AddressPrefix = subnetAddressPrefix(sp)
			if sp.NetworkSecurityGroup != nil {
				sd.NetworkSecurityGroup = to.ValOrZero(sp.NetworkSecurityGroup.ID)
			}
			if sp.RouteTable != nil {
				sd.RouteTable = to.ValOrZero(sp.RouteTable.ID)
			}
			for _, se := range sp.ServiceEndpoints {
				if se != nil && se.Service != nil {
					sd.ServiceEndpoints = append(sd.ServiceEndpoints, *se.Service)
				}
			}
			for _, del := range sp.Delegations {
				if del != nil && del.Properties != nil && del.Properties.ServiceName != nil {
					sd.Delegations = append(sd.Delegations, *del.Properties.ServiceName)
				}
			}
		}
		d.Subnets = append(d.Subnets, sd)
	}
	return d, nil
}

// subnetAddressPrefix returns the single prefix when set, otherwise the
// first entry of the plural form. Subnets created with the newer API
// versions only populate AddressPrefixes.
func subnetAddressPrefix(sp *armnetwork.SubnetPropertiesFormat) string {
	if sp.AddressPrefix != nil {
		return *sp.AddressPrefix
	}
	if len(sp.AddressPrefixes) > 0 && sp.AddressPrefixes[0] != nil {
		return *sp.AddressPrefixes[0]
	}
	return ""
}

type ipConfigurationDetails struct {
	Name                      string `json:"name"`
	PrivateIPAddress          string `json:"privateIpAddress"`
	PrivateIPAllocationMethod string `json:"privateIpAllocationMethod"`
	PublicIPAddress           string `json:"publicIpAddress,omitempty"`
}

type nicDetails struct {
	IPConfigurations []ipConfigurationDetails `json:"ipConfigurations"`
}

func (cf *ClientFactory) networkInterfaceDetails(ctx context.Context, res *RawResource) (any, error) {
	client, err := armnetwork.NewInterfacesClient(res.SubscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, res.ResourceGroup, res.Name, nil)
	if err != nil {
		return nil, err
	}
	d := nicDetails{}
	if resp.Properties == nil {
		return d, nil
	}
	for _, ipc := range resp.Properties.IPConfigurations {
		if ipc == nil {
			continue
		}
		icd := ipConfigurationDetails{Name: to.ValOrZero(ipc.Name)}
		if ip := ipc.Properties; ip != nil {
			icd.PrivateIPAddress = to.ValOrZero(ip.PrivateIPAddress)
			if ip.PrivateIPAllocationMethod != nil {
				icd.PrivateIPAllocationMethod = string(*ip.PrivateIPAllocationMethod)
			}
			if ip.PublicIPAddress != nil {
				icd.PublicIPAddress = to.ValOrZero(ip.PublicIPAddress.ID)
			}
		}
		d.IPConfigurations = append(d.IPConfigurations, icd)
	}
	return d, nil
}

type storageDetails struct {
	SKU        string `json:"sku"`
	Kind       string `json:"kind"`
	AccessTier string `json:"accessTier"`
	HTTPSOnly  bool   `json:"httpsOnly"`
}

func (cf *ClientFactory) storageAccountDetails(ctx context.Context, res *RawResource) (any, error) {
	client, err := armstorage.NewAccountsClient(res.SubscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetProperties(ctx, res.ResourceGroup, res.Name, nil)
	if err != nil {
		return nil, err
	}
	d := storageDetails{}
	if resp.SKU != nil && resp.SKU.Name != nil {
		d.SKU = string(*resp.SKU.Name)
	}
	if resp.Kind != nil {
		d.Kind = string(*resp.Kind)
	}
	if props := resp.Properties; props != nil {
		if props.AccessTier != nil {
			d.AccessTier = string(*props.AccessTier)
		}
		d.HTTPSOnly = to.ValOrZero(props.EnableHTTPSTrafficOnly)
	}
	return d, nil
}

type sqlServerDetails struct {
	Version                  string `json:"version"`
	AdministratorLogin       string `json:"administratorLogin"`
	FullyQualifiedDomainName string `json:"fullyQualifiedDomainName"`
}

func (cf *ClientFactory) sqlServerDetails(ctx context.Context, res *RawResource) (any, error) {
	client, err := armsql.NewServersClient(res.SubscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, res.ResourceGroup, res.Name, nil)
	if err != nil {
		return nil, err
	}
	d := sqlServerDetails{}
	if props := resp.Properties; props != nil {
		d.Version = to.ValOrZero(props.Version)
		d.AdministratorLogin = to.ValOrZero(props.AdministratorLogin)
		d.FullyQualifiedDomainName = to.ValOrZero(props.FullyQualifiedDomainName)
	}
	return d, nil
}
