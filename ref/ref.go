package ref

import (
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/rallykit/errors"
)

// Ref is a reference object as returned by the server, e.g. {"_ref": "/defect/1234"}.
type Ref struct {
	Ref        string `json:"_ref"`
	RefObjName string `json:"_refObjectName,omitempty"`
	Type       string `json:"_type,omitempty"`
}

// RefPath implements Referencer.
func (r Ref) RefPath() string { return r.Ref }

// Referencer is implemented by values that carry a ref path.
type Referencer interface {
	RefPath() string
}

var webservicePrefix = regexp.MustCompile(`^/slm/webservice/[^/]+`)

// Resolve returns the path a ref value identifies. Strings are used as-is;
// Ref values, Referencers and maps carry the path in their _ref field.
// No URL validation or normalization is performed.
func Resolve(v any) (string, error) {
	var path string
	switch r := v.(type) {
	case nil:
		return "", errors.MissingField("ref")
	case string:
		path = r
	case Ref:
		path = r.Ref
	case *Ref:
		if r == nil {
			return "", errors.MissingField("ref")
		}
		path = r.Ref
	case Referencer:
		if isNil(r) {
			return "", errors.MissingField("ref")
		}
		path = r.RefPath()
	case map[string]any:
		s, ok := r["_ref"].(string)
		if !ok {
			return "", errors.InvalidRef(v)
		}
		path = s
	case map[string]string:
		path = r["_ref"]
	default:
		return "", errors.InvalidRef(v)
	}
	if path == "" {
		return "", errors.MissingField("ref")
	}
	return path, nil
}

// isNil reports whether v holds a typed nil.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// IsRef reports whether v resolves to a non-empty ref path.
func IsRef(v any) bool {
	_, err := Resolve(v)
	return err == nil
}

// Relative reduces a ref to its path below the webservice root:
//
//	https://rally1.rallydev.com/slm/webservice/v2.0/defect/1234.js?fetch=true -> /defect/1234
func Relative(path string) string {
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		path = u.Path
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = webservicePrefix.ReplaceAllString(path, "")
	path = strings.TrimSuffix(path, ".js")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Type returns the type segments that precede the object id, lower-cased:
//
//	/defect/1234                 -> defect
//	/portfolioitem/feature/5678  -> portfolioitem/feature
//	/defect/1234/tasks           -> defect
func Type(path string) string {
	segments := split(path)
	if i := idIndex(segments); i >= 0 {
		segments = segments[:i]
	}
	return strings.ToLower(strings.Join(segments, "/"))
}

// ID returns the object id segment, or "" when the ref has none.
func ID(path string) string {
	segments := split(path)
	if i := idIndex(segments); i >= 0 {
		return segments[i]
	}
	return ""
}

func split(path string) []string {
	trimmed := strings.Trim(Relative(path), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// idIndex finds the first segment that is an object id, numeric or UUID.
func idIndex(segments []string) int {
	for i, s := range segments {
		if isID(s) {
			return i
		}
	}
	return -1
}

func isID(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
