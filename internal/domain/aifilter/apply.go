package aifilter

import (
	"fmt"
	"strings"

	"hrconsole/internal/domain/skills"
)

const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpIn       = "in"
)

// Fields lists the employee attributes conditions may reference.
var Fields = []string{
	"employee_id", "first_name", "last_name", "full_name", "email", "department",
	"parent_department", "location", "city", "designation", "title", "employee_status", "manager",
}

// ApplyFilters keeps the employees matching every condition. Conditions on
// unknown fields or with unknown operators never match.
func ApplyFilters(employees []skills.Employee, conditions []Condition) []skills.Employee {
	out := make([]skills.Employee, 0, len(employees))
	for _, e := range employees {
		if matchAll(e, conditions) {
			out = append(out, e)
		}
	}
	return out
}

func matchAll(e skills.Employee, conditions []Condition) bool {
	for _, c := range conditions {
		if !match(e, c) {
			return false
		}
	}
	return true
}

func match(e skills.Employee, c Condition) bool {
	actual, ok := fieldValue(e, c.Field)
	if !ok {
		return false
	}
	actual = strings.ToLower(strings.TrimSpace(actual))
	switch strings.ToLower(c.Operator) {
	case OpEquals:
		return actual == normalize(c.Value)
	case OpContains:
		needle := normalize(c.Value)
		return needle != "" && strings.Contains(actual, needle)
	case OpIn:
		for _, candidate := range values(c.Value) {
			if actual == normalize(candidate) {
				return true
			}
		}
	}
	return false
}

func fieldValue(e skills.Employee, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "employee_id":
		return e.EmployeeID, true
	case "first_name":
		return e.FirstName, true
	case "last_name":
		return e.LastName, true
	case "full_name", "name":
		return e.FullName(), true
	case "email":
		return e.Email, true
	case "department":
		return e.Department, true
	case "parent_department":
		return e.ParentDepartment, true
	case "location":
		return e.Place(), true
	case "city":
		return e.City, true
	case "designation":
		return e.Role(), true
	case "title":
		return e.Title, true
	case "employee_status", "status":
		return e.Status(), true
	case "manager":
		return e.Manager, true
	}
	return "", false
}

func values(v any) []any {
	switch typed := v.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, s := range typed {
			out[i] = s
		}
		return out
	case string:
		var out []any
		for _, part := range strings.Split(typed, ",") {
			out = append(out, part)
		}
		return out
	}
	return []any{v}
}

func normalize(v any) string {
	if v == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
}
