package domain

type Company struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type CompaniesResponse struct {
	Results []Company `json:"results"`
	Paging  *Paging   `json:"paging,omitempty"`
}

type CompanyInput struct {
	ID string `json:"id"`
}

type CompaniesBatchRequest struct {
	Inputs     []CompanyInput `json:"inputs"`
	Properties []string       `json:"properties"`
}

type CompanySearchRequest struct {
	Query      string   `json:"query"`
	Limit      int      `json:"limit"`
	Properties []string `json:"properties"`
}
