// Package domain holds the HubSpot wire shapes. Properties arrive as string
// maps; normalization into core types happens in the integrator service.
package domain

type Filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        string   `json:"value,omitempty"`
	Values       []string `json:"values,omitempty"`
}

type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

type DealsSearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
	After        string        `json:"after,omitempty"`
}

type AssociationRef struct {
	ID string `json:"id"`
}

type AssociationResults struct {
	Results []AssociationRef `json:"results"`
}

type Associations struct {
	Companies AssociationResults `json:"companies"`
}

type Deal struct {
	ID           string            `json:"id"`
	Properties   map[string]string `json:"properties"`
	Associations *Associations     `json:"associations,omitempty"`
}

type PagingNext struct {
	After string `json:"after"`
}

type Paging struct {
	Next *PagingNext `json:"next,omitempty"`
}

type DealsResponse struct {
	Results []Deal  `json:"results"`
	Paging  *Paging `json:"paging,omitempty"`
}
