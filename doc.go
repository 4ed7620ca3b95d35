// Package formerr resolves the validation error message of a single form
// field.
//
// A field has two error sources: its own local error list, and a form-wide
// error tree delivered as one or more snapshots. Upstream validators are not
// consistent about how a path like people[0].firstName is keyed, so every
// snapshot is searched with several strategies in a fixed order:
//
//   - FlatExact: {"people[0].firstName": {"_errors": [...]}}
//   - FlatDot: {"people.0.firstName": {"_errors": [...]}}
//   - NestedDotSegments, NestedPathSegments, NestedArrayAware:
//     {"people": {"0": {"firstName": {"_errors": [...]}}}}
//
// The first message found wins. An error node counts only when the first
// entry of its _errors list is a non-empty string, so {"_errors": [""]} is
// no error. Resolution never panics; any malformed input resolves to
// "no error".
//
// Typical usage:
//
//	res := formerr.Resolve(field)
//	if res.HasError {
//	    render(res.Message)
//	}
//
// BuildTree produces error trees from Issues in any of the layouts above,
// and the source subpackage decodes snapshots from JSON or YAML.
package formerr
