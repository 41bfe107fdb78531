package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create NAME ADMIN_EMAIL",
	Short: "Create a tenant (super-admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tenant map[string]any
		err := call(http.MethodPost, "/api/tenant", map[string]string{
			"name":       args[0],
			"adminEmail": args[1],
		}, &tenant)
		if err != nil {
			return err
		}
		return printJSON(tenant)
	},
}

var tenantGetCmd = &cobra.Command{
	Use:   "get TENANT_ID",
	Short: "Show a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tenant map[string]any
		if err := call(http.MethodGet, "/api/tenant/"+args[0], nil, &tenant); err != nil {
			return err
		}
		return printJSON(tenant)
	},
}

var tenantAddMemberCmd = &cobra.Command{
	Use:   "add-member TENANT_ID EMAIL",
	Short: "Add an account to a tenant by email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodPost, "/api/tenant/"+args[0]+"/members", map[string]string{
			"email": args[1],
		}, nil)
	},
}

var tenantRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member TENANT_ID EMAIL",
	Short: "Remove an account from a tenant by email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodDelete, "/api/tenant/"+args[0]+"/members", map[string]string{
			"email": args[1],
		}, nil)
	},
}

var tenantMembersCmd = &cobra.Command{
	Use:   "members TENANT_ID",
	Short: "List a tenant's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var members []map[string]any
		if err := call(http.MethodGet, "/api/tenant/"+args[0]+"/members", nil, &members); err != nil {
			return err
		}
		return printJSON(members)
	},
}

func init() {
	tenantCmd.AddCommand(tenantCreateCmd, tenantGetCmd, tenantAddMemberCmd, tenantRemoveMemberCmd, tenantMembersCmd)
	rootCmd.AddCommand(tenantCmd)
}
