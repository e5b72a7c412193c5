package auth

import "testing"

func TestRoleAllowed(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		capability string
		want       bool
	}{
		{"admin manages users", RoleAdmin, CapUsersManage, true},
		{"administrativo cannot manage users", RoleAdministrative, CapUsersManage, false},
		{"administrativo manages contracts", RoleAdministrative, CapContractsManage, true},
		{"nominas runs payroll", RolePayroll, CapPayrollRun, true},
		{"recursos runs payroll", RoleHumanResources, CapPayrollRun, true},
		{"colaborador cannot run payroll", RoleCollaborator, CapPayrollRun, false},
		{"productividad reads employees", RoleProductivity, CapEmployeesRead, true},
		{"productividad cannot write employees", RoleProductivity, CapEmployeesWrite, false},
		{"colaborador reads own profile", RoleCollaborator, CapProfileRead, true},
		{"unknown role denied", "auditor", CapReportsRead, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := RoleAllowed(tc.role, tc.capability); got != tc.want {
				t.Fatalf("RoleAllowed(%q, %q) = %v, want %v", tc.role, tc.capability, got, tc.want)
			}
		})
	}
}

func TestEveryRoleHasProfileAccess(t *testing.T) {
	for _, role := range AllRoles {
		if !RoleAllowed(role, CapProfileRead) {
			t.Fatalf("role %q should be able to read its own profile", role)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range AllRoles {
		if !ValidRole(role) {
			t.Fatalf("expected %q to be a valid role", role)
		}
	}
	if ValidRole("superuser") {
		t.Fatal("did not expect superuser to be valid")
	}
}
