package rbac

// The static permission/role catalog. Seeding is authoritative: permissions
// and roles are upserted by name, and role→permission links are rebuilt on
// every run, so a re-seed always restores this exact mapping.

type PermissionDef struct {
	Name        string // resource.action
	Description string
}

type RoleDef struct {
	Name        string
	Description string
	Permissions []string
}

var PermissionCatalog = []PermissionDef{
	// User management
	{"users.create", "Create new users"},
	{"users.read", "View user information"},
	{"users.update", "Update user information"},
	{"users.delete", "Delete users"},
	{"users.manage_roles", "Manage user roles"},

	// Department management
	{"departments.create", "Create new departments"},
	{"departments.read", "View department information"},
	{"departments.update", "Update department information"},
	{"departments.delete", "Delete departments"},
	{"departments.manage_budget", "Manage department budgets"},

	// Employee management
	{"employees.create", "Create employee profiles"},
	{"employees.read", "View employee information"},
	{"employees.update", "Update employee information"},
	{"employees.delete", "Delete employee profiles"},
	{"employees.view_salary", "View employee salaries"},
	{"employees.update_salary", "Update employee salaries"},

	// Attendance management
	{"attendance.create", "Record attendance"},
	{"attendance.read", "View attendance records"},
	{"attendance.update", "Update attendance records"},
	{"attendance.delete", "Delete attendance records"},
	{"attendance.view_all", "View all department attendance"},

	// Leave management
	{"leave.create", "Submit leave requests"},
	{"leave.read", "View leave requests"},
	{"leave.update", "Update leave requests"},
	{"leave.delete", "Delete leave requests"},
	{"leave.approve", "Approve/reject leave requests"},
	{"leave.view_all", "View all department leave requests"},

	// Reports and analytics
	{"reports.view", "View reports"},
	{"reports.create", "Create custom reports"},
	{"reports.export", "Export reports"},
	{"reports.financial", "View financial reports"},

	// System administration
	{"system.settings", "Manage system settings"},
	{"system.backup", "Perform system backups"},
	{"system.logs", "View system logs"},
	{"system.maintenance", "Perform system maintenance"},

	// Payment management
	{"payments.create", "Process payments"},
	{"payments.read", "View payment records"},
	{"payments.update", "Update payment information"},
	{"payments.delete", "Delete payment records"},
	{"payments.approve", "Approve payments"},
	{"payments.view_all", "View all payment records"},
	{"payments.mpesa", "Manage MPESA transactions"},

	// Procurement
	{"procurement.create", "Create procurement requests"},
	{"procurement.read", "View procurement records"},
	{"procurement.update", "Update procurement information"},
	{"procurement.approve", "Approve procurement requests"},

	// Inventory / spare shop
	{"inventory.create", "Add inventory items"},
	{"inventory.read", "View inventory"},
	{"inventory.update", "Update inventory"},
	{"inventory.delete", "Remove inventory items"},
	{"inventory.transfer", "Transfer inventory items"},

	// Engineering
	{"engineering.projects", "Manage engineering projects"},
	{"engineering.equipment", "Manage equipment"},
	{"engineering.maintenance", "Schedule maintenance"},

	// Rentals
	{"rentals.create", "Create rental agreements"},
	{"rentals.read", "View rental information"},
	{"rentals.update", "Update rental agreements"},
	{"rentals.billing", "Manage rental billing"},

	// Sales & marketing
	{"sales.leads", "Manage sales leads"},
	{"sales.quotes", "Create quotes"},
	{"sales.contracts", "Manage contracts"},
	{"marketing.campaigns", "Manage marketing campaigns"},
}

var RoleCatalog = []RoleDef{
	{
		Name:        "admin",
		Description: "System Administrator with full access",
		Permissions: allPermissionNames(),
	},
	{
		Name:        "hr_manager",
		Description: "Human Resources Manager",
		Permissions: []string{
			"users.create", "users.read", "users.update", "users.manage_roles",
			"employees.create", "employees.read", "employees.update", "employees.view_salary", "employees.update_salary",
			"attendance.read", "attendance.update", "attendance.view_all",
			"leave.read", "leave.approve", "leave.view_all",
			"reports.view", "reports.create", "reports.export",
			"payments.read", "payments.create",
		},
	},
	{
		Name:        "department_manager",
		Description: "Department Manager",
		Permissions: []string{
			"users.read", "employees.read", "employees.update",
			"attendance.read", "attendance.update", "attendance.view_all",
			"leave.read", "leave.approve", "leave.view_all",
			"reports.view", "departments.read", "departments.update",
		},
	},
	{
		Name:        "employee",
		Description: "Regular Employee",
		Permissions: []string{
			"attendance.create", "attendance.read",
			"leave.create", "leave.read",
			"employees.read",
		},
	},
	{
		Name:        "procurement_officer",
		Description: "Procurement Officer",
		Permissions: []string{
			"procurement.create", "procurement.read", "procurement.update", "procurement.approve",
			"inventory.read", "reports.view", "employees.read",
		},
	},
	{
		Name:        "accountant",
		Description: "Accountant",
		Permissions: []string{
			"payments.create", "payments.read", "payments.update", "payments.approve", "payments.view_all", "payments.mpesa",
			"reports.view", "reports.financial", "employees.read", "employees.view_salary",
		},
	},
	{
		Name:        "inventory_manager",
		Description: "Inventory/Spare Shop Manager",
		Permissions: []string{
			"inventory.create", "inventory.read", "inventory.update", "inventory.delete", "inventory.transfer",
			"reports.view", "employees.read",
		},
	},
	{
		Name:        "engineer",
		Description: "Engineering Staff",
		Permissions: []string{
			"engineering.projects", "engineering.equipment", "engineering.maintenance",
			"inventory.read", "reports.view", "employees.read",
		},
	},
	{
		Name:        "rental_manager",
		Description: "Rentals Manager",
		Permissions: []string{
			"rentals.create", "rentals.read", "rentals.update", "rentals.billing",
			"payments.read", "reports.view", "employees.read",
		},
	},
	{
		Name:        "sales_manager",
		Description: "Sales & Marketing Manager",
		Permissions: []string{
			"sales.leads", "sales.quotes", "sales.contracts",
			"marketing.campaigns", "reports.view", "employees.read",
		},
	},
}

func allPermissionNames() []string {
	names := make([]string, len(PermissionCatalog))
	for i, p := range PermissionCatalog {
		names[i] = p.Name
	}
	return names
}
