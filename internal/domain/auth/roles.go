package auth

// Role names are stored verbatim on user rows and matched exactly.
const (
	RoleAdmin          = "admin"
	RoleAdministrative = "administrativo"
	RoleCollaborator   = "colaborador"
	RoleReports        = "reportes"
	RoleProductivity   = "productividad"
	RoleHumanResources = "recursos"
	RolePayroll        = "nominas"
)

var AllRoles = []string{
	RoleAdmin,
	RoleAdministrative,
	RoleCollaborator,
	RoleReports,
	RoleProductivity,
	RoleHumanResources,
	RolePayroll,
}

const (
	CapUsersManage       = "users.manage"
	CapEmployeesRead     = "employees.read"
	CapEmployeesWrite    = "employees.write"
	CapContractsManage   = "contracts.manage"
	CapOvertimeManage    = "overtime.manage"
	CapPayrollRun        = "payroll.run"
	CapProductivityRead  = "productivity.read"
	CapProductivityWrite = "productivity.write"
	CapReportsRead       = "reports.read"
	CapProfileRead       = "profile.read"
)

// roleCapabilities is the single authorization table. Handlers never compare
// role strings directly; they require a capability and the gate consults
// this table.
var roleCapabilities = map[string][]string{
	RoleAdmin: {
		CapUsersManage,
		CapEmployeesRead,
		CapEmployeesWrite,
		CapContractsManage,
		CapOvertimeManage,
		CapPayrollRun,
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
	RoleAdministrative: {
		CapEmployeesRead,
		CapEmployeesWrite,
		CapContractsManage,
		CapOvertimeManage,
		CapPayrollRun,
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
	RoleHumanResources: {
		CapEmployeesRead,
		CapEmployeesWrite,
		CapOvertimeManage,
		CapPayrollRun,
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
	RolePayroll: {
		CapEmployeesRead,
		CapEmployeesWrite,
		CapOvertimeManage,
		CapPayrollRun,
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
	RoleProductivity: {
		CapEmployeesRead,
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
	RoleReports: {
		CapProductivityRead,
		CapReportsRead,
		CapProfileRead,
	},
	RoleCollaborator: {
		CapProductivityRead,
		CapProductivityWrite,
		CapReportsRead,
		CapProfileRead,
	},
}

func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

func RoleAllowed(role, capability string) bool {
	for _, granted := range roleCapabilities[role] {
		if granted == capability {
			return true
		}
	}
	return false
}
