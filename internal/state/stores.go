package state

import "github.com/funddeck/funddeck/internal/api"

// Stores hold the last-fetched resource lists so tab renderers and pickers
// can rebuild their rows without a refetch. Accessors clone, so callers can
// sort and slice freely.

type FundingStore interface {
	Sources() []api.FundingSource
	SetSources([]api.FundingSource)
	Budgets() []api.Budget
	SetBudgets([]api.Budget)
}

type fundingStore struct {
	sources []api.FundingSource
	budgets []api.Budget
}

func NewFundingStore() FundingStore { return &fundingStore{} }

func (s *fundingStore) Sources() []api.FundingSource     { return cloneSlice(s.sources) }
func (s *fundingStore) SetSources(v []api.FundingSource) { s.sources = cloneSlice(v) }
func (s *fundingStore) Budgets() []api.Budget            { return cloneSlice(s.budgets) }
func (s *fundingStore) SetBudgets(v []api.Budget)        { s.budgets = cloneSlice(v) }

type ProjectStore interface {
	Projects() []api.Project
	SetProjects([]api.Project)
	Groups() []api.ProjectGroup
	SetGroups([]api.ProjectGroup)
}

type projectStore struct {
	projects []api.Project
	groups   []api.ProjectGroup
}

func NewProjectStore() ProjectStore { return &projectStore{} }

func (s *projectStore) Projects() []api.Project         { return cloneSlice(s.projects) }
func (s *projectStore) SetProjects(v []api.Project)     { s.projects = cloneSlice(v) }
func (s *projectStore) Groups() []api.ProjectGroup      { return cloneSlice(s.groups) }
func (s *projectStore) SetGroups(v []api.ProjectGroup)  { s.groups = cloneSlice(v) }

type CategoryStore interface {
	Categories() []api.Category
	SetCategories([]api.Category)
}

type categoryStore struct {
	categories []api.Category
}

func NewCategoryStore() CategoryStore { return &categoryStore{} }

func (s *categoryStore) Categories() []api.Category     { return cloneSlice(s.categories) }
func (s *categoryStore) SetCategories(v []api.Category) { s.categories = cloneSlice(v) }

type VendorStore interface {
	Vendors() []api.Vendor
	SetVendors([]api.Vendor)
}

type vendorStore struct {
	vendors []api.Vendor
}

func NewVendorStore() VendorStore { return &vendorStore{} }

func (s *vendorStore) Vendors() []api.Vendor     { return cloneSlice(s.vendors) }
func (s *vendorStore) SetVendors(v []api.Vendor) { s.vendors = cloneSlice(v) }

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	dup := make([]T, len(in))
	copy(dup, in)
	return dup
}
