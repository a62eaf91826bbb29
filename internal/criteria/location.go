package criteria

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names shared by locations and the dashboard API.
const (
	ParamQuery    = "q"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamSort     = "sort"
	ParamOrder    = "order"
)

// Values encodes c as query parameters, omitting defaults (empty query,
// page 0, the default page size, ascending order) so that locations stay
// short and stable for bookmarking.
func Values(c Criteria, limits Limits) url.Values {
	c = limits.Clamp(c)
	values := url.Values{}
	if c.Query != "" {
		values.Set(ParamQuery, c.Query)
	}
	if c.Page > 0 {
		values.Set(ParamPage, strconv.Itoa(c.Page))
	}
	if c.PageSize != limits.defaultPageSize() {
		values.Set(ParamPageSize, strconv.Itoa(c.PageSize))
	}
	if !c.Sort.IsZero() {
		values.Set(ParamSort, c.Sort.Field)
		if c.Sort.Direction == Desc {
			values.Set(ParamOrder, string(Desc))
		}
	}
	return values
}

// FromValues decodes query parameters, clamping anything out of range and
// ignoring anything unparsable.
func FromValues(values url.Values, limits Limits) Criteria {
	c := limits.Default()
	c.Query = values.Get(ParamQuery)
	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(ParamPage))); err == nil {
		c.Page = page
	}
	if size, err := strconv.Atoi(strings.TrimSpace(values.Get(ParamPageSize))); err == nil {
		c.PageSize = size
	}
	if field := values.Get(ParamSort); field != "" {
		c.Sort = Sort{Field: field, Direction: Direction(values.Get(ParamOrder))}
	}
	return limits.Clamp(c)
}

// Location renders the address of a list view, e.g. "species?q=lince&page=2".
func Location(list string, c Criteria, limits Limits) string {
	encoded := Values(c, limits).Encode()
	if encoded == "" {
		return list
	}
	return list + "?" + encoded
}

// ParseLocation splits a location into its list name and Criteria. A leading
// slash or "/api/" prefix is tolerated so pasted dashboard URLs work too.
func ParseLocation(location string, limits Limits) (string, Criteria) {
	trimmed := strings.TrimSpace(location)
	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" {
		trimmed = u.Path
		if u.RawQuery != "" {
			trimmed += "?" + u.RawQuery
		}
	}
	path, rawQuery, _ := strings.Cut(trimmed, "?")
	path = strings.TrimPrefix(strings.Trim(path, "/"), "api/")

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	return path, FromValues(values, limits)
}

// FetchKey serializes a list identity and Criteria into a cache key. Unlike
// Location it spells out every field, so equal keys mean equal requests.
func FetchKey(list string, c Criteria) string {
	values := url.Values{}
	values.Set(ParamQuery, c.Query)
	values.Set(ParamPage, strconv.Itoa(c.Page))
	values.Set(ParamPageSize, strconv.Itoa(c.PageSize))
	values.Set(ParamSort, c.Sort.Field)
	values.Set(ParamOrder, string(c.Sort.Direction))
	return list + "?" + values.Encode()
}
