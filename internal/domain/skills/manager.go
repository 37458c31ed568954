package skills

import "strings"

// NormalizeName trims and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ResolveManager finds the employee whose full name matches the manager
// reference of another record. Managers are referenced by name, not id.
func ResolveManager(employees []Employee, managerName string) (Employee, bool) {
	target := strings.ToLower(NormalizeName(managerName))
	if target == "" {
		return Employee{}, false
	}
	for _, emp := range employees {
		if strings.ToLower(NormalizeName(emp.FirstName+" "+emp.LastName)) == target {
			return emp, true
		}
	}
	return Employee{}, false
}
