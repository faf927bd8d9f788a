// Package ref resolves and parses WSAPI object references. A ref is either a
// path string such as "/defect/1234" or an object carrying that path in its
// "_ref" field.
package ref
