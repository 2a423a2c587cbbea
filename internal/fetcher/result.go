package fetcher

// Outcome is the result of fetching and validating one kind.
// Exactly one of Response and Err is meaningful: when Err is nil, Response
// holds a payload that passed validation for Kind.
type Outcome struct {
	Kind     Kind
	Response RawResponse
	Err      error
}

// OK reports whether the kind was fetched and validated successfully.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Response != nil
}

// Outcomes maps each kind to its outcome once every request has completed or failed.
type Outcomes map[Kind]Outcome

// Failed returns the kinds that did not succeed, in canonical order.
// A kind with no outcome at all is reported as failed.
func (o Outcomes) Failed() []Kind {
	var failed []Kind
	for _, k := range Kinds() {
		if out, ok := o[k]; !ok || !out.OK() {
			failed = append(failed, k)
		}
	}
	return failed
}
