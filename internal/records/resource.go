package records

import (
	"slices"
	"sort"
)

// Resource describes one table exposed under /api/<Name>.
type Resource struct {
	Name       string
	Table      string
	PrimaryKey string
	// Columns lists every writable or filterable column, primary key included.
	Columns []string
}

// HasColumn reports whether col belongs to the resource.
func (r Resource) HasColumn(col string) bool {
	return slices.Contains(r.Columns, col)
}

func resource(name, pk string, cols ...string) Resource {
	return Resource{Name: name, Table: name, PrimaryKey: pk, Columns: append([]string{pk}, cols...)}
}

// ProfilesResource is handled with its own create and lookup rules.
const ProfilesResource = "profiles"

var registry = []Resource{
	resource("customer", "customer_id",
		"profile_id", "first_name", "last_name", "email", "phone", "created_at"),
	resource("employee", "employee_id",
		"profile_id", "first_name", "last_name", "position", "phone", "hired_date", "created_at"),
	resource("massage", "massage_id",
		"massage_name", "description", "duration_minutes", "price", "image_url", "created_at"),
	resource("package", "package_id",
		"package_name", "description", "duration_minutes", "price", "created_at"),
	resource("payment", "payment_id",
		"booking_detail_id", "customer_id", "amount", "method", "status", "paid_at", "created_at"),
	resource("coupon", "coupon_id",
		"code", "description", "discount_percent", "discount_amount", "valid_from", "valid_until", "created_at"),
	resource("member_coupon", "member_coupon_id",
		"customer_id", "coupon_id", "is_used", "used_at", "created_at"),
	resource("leave_record", "leave_record_id",
		"employee_id", "start_date", "end_date", "reason", "status", "created_at"),
	resource("therapist_massage_skill", "therapist_massage_skill_id",
		"employee_id", "massage_id", "created_at"),
	resource("booking_detail", "booking_detail_id",
		"customer_id", "massage_id", "package_id", "employee_id", "reference", "booking_date",
		"start_time", "duration_minutes", "price", "status", "created_at"),
	resource(ProfilesResource, "profile_id", "user_type", "created_at"),
}

// Resources returns the registry sorted by name.
func Resources() []Resource {
	out := slices.Clone(registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a resource by name.
func Lookup(name string) (Resource, bool) {
	for _, r := range registry {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
