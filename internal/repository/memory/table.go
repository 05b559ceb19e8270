package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type fields map[string]interface{}

// table is a map of rows that understands the specification types the GORM
// repositories use. Unknown specifications are ignored.
type table[T any] struct {
	rows   map[uuid.UUID]T
	id     func(*T) uuid.UUID
	fields func(*T) fields
	unique [][]string
}

func newTable[T any](id func(*T) uuid.UUID, f func(*T) fields, unique ...[]string) *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T), id: id, fields: f, unique: unique}
}

func uniqueViolation(cols []string) error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint on " + strings.Join(cols, ",")}
}

func (t *table[T]) checkUnique(v *T) error {
	id := t.id(v)
	nf := t.fields(v)
	for _, cols := range t.unique {
		for oid, existing := range t.rows {
			if oid == id {
				continue
			}
			ef := t.fields(&existing)
			same := true
			for _, c := range cols {
				if key(ef[c]) != key(nf[c]) {
					same = false
					break
				}
			}
			if same {
				return uniqueViolation(cols)
			}
		}
	}
	return nil
}

func (t *table[T]) insert(v T) error {
	if _, ok := t.rows[t.id(&v)]; ok {
		return uniqueViolation([]string{"id"})
	}
	if err := t.checkUnique(&v); err != nil {
		return err
	}
	t.rows[t.id(&v)] = v
	return nil
}

func (t *table[T]) save(v T) error {
	if err := t.checkUnique(&v); err != nil {
		return err
	}
	t.rows[t.id(&v)] = v
	return nil
}

func (t *table[T]) delete(id uuid.UUID) {
	delete(t.rows, id)
}

func (t *table[T]) first(specs []specification.Specification) (T, bool) {
	res := t.query(specs)
	if len(res) == 0 {
		var zero T
		return zero, false
	}
	return res[0], true
}

func (t *table[T]) query(specs []specification.Specification) []T {
	var out []T
	for _, row := range t.rows {
		r := row
		if matchesAll(specs, t.fields(&r)) {
			out = append(out, r)
		}
	}

	// Stable default order so Pagination behaves deterministically.
	sort.SliceStable(out, func(i, j int) bool {
		return t.id(&out[i]).String() < t.id(&out[j]).String()
	})
	for _, s := range specs {
		if o, ok := s.(specification.OrderBy); ok {
			sort.SliceStable(out, func(i, j int) bool {
				a, b := t.fields(&out[i])[o.Field], t.fields(&out[j])[o.Field]
				if o.Desc {
					return less(b, a)
				}
				return less(a, b)
			})
		}
	}
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok {
			out = paginate(out, p)
		}
	}
	return out
}

func (t *table[T]) count(specs []specification.Specification) int64 {
	var n int64
	for _, row := range t.rows {
		r := row
		if matchesAll(specs, t.fields(&r)) {
			n++
		}
	}
	return n
}

func paginate[T any](rows []T, p specification.Pagination) []T {
	if p.Offset >= len(rows) {
		return nil
	}
	rows = rows[p.Offset:]
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows
}

func matchesAll(specs []specification.Specification, f fields) bool {
	for _, s := range specs {
		if !matches(s, f) {
			return false
		}
	}
	return true
}

func matches(spec specification.Specification, f fields) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return key(f["id"]) == s.ID.String()
	case specification.ByIDs:
		for _, id := range s.IDs {
			if key(f["id"]) == id.String() {
				return true
			}
		}
		return false
	case specification.FilterBy:
		return key(f[s.Field]) == key(s.Value)
	case specification.Search:
		if s.Term == "" {
			return true
		}
		for _, field := range s.Fields {
			if contains(f[field], s.Term) {
				return true
			}
		}
		return false
	case specification.ByStatus:
		return s.Status == "" || key(f["status"]) == s.Status
	case specification.ByEmail:
		return strings.EqualFold(key(f["email"]), s.Email)
	case specification.UserOwnedBy:
		return key(f["user_id"]) == s.UserID.String()
	case specification.ActiveUsers:
		return key(f["status"]) == "active"
	case specification.ByRole:
		return s.Role == "" || key(f["role"]) == s.Role
	case specification.ByTokenHash:
		return key(f["token_hash"]) == s.Hash
	case specification.ByProvider:
		return key(f["provider_name"]) == s.Name && key(f["provider_user_id"]) == s.ProviderUserID
	case specification.ByName:
		return strings.EqualFold(strings.TrimSpace(key(f["name"])), strings.TrimSpace(s.Name))
	case specification.ByCode:
		return key(f["code"]) == strings.ToUpper(strings.TrimSpace(s.Code))
	case specification.ActiveOnly:
		return f["is_active"] == true
	case specification.OrganizedBy:
		return key(f["organizer_id"]) == s.OrganizerID.String()
	case specification.InCategory:
		return s.CategoryID == nil || key(f["category_id"]) == s.CategoryID.String()
	case specification.StartsAfter:
		t, ok := f["starts_at"].(time.Time)
		return ok && t.After(s.Time)
	case specification.ForEvent:
		return key(f["event_id"]) == s.EventID.String()
	case specification.ByProviderOrder:
		return key(f["provider_order_id"]) == s.OrderID
	case specification.ReportPair:
		return key(f["user_id"]) == s.UserID.String() && key(f["reported_by"]) == s.ReportedBy.String()
	case specification.ReportSearch:
		if s.Term == "" {
			return true
		}
		for _, field := range []string{"reason", "description", "reported_name", "reporter_name"} {
			if contains(f[field], s.Term) {
				return true
			}
		}
		return false
	}
	return true
}

func key(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return ""
		}
		return x.String()
	case *string:
		if x == nil {
			return ""
		}
		return *x
	default:
		return fmt.Sprint(x)
	}
}

func contains(v interface{}, term string) bool {
	return strings.Contains(strings.ToLower(key(v)), strings.ToLower(term))
}

func less(a, b interface{}) bool {
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Before(y)
	case int:
		y, _ := b.(int)
		return x < y
	case int64:
		y, _ := b.(int64)
		return x < y
	}
	return key(a) < key(b)
}
