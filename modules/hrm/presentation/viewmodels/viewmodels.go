package viewmodels

type Employee struct {
	ID         string `json:"id" yaml:"id"`
	FullName   string `json:"full_name" yaml:"full_name"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone" yaml:"phone"`
	Department string `json:"department" yaml:"department"`
	JobTitle   string `json:"job_title" yaml:"job_title"`
	Manager    string `json:"manager" yaml:"manager"`
	HireDate   string `json:"hire_date" yaml:"hire_date"`
	Salary     string `json:"salary" yaml:"salary"`
	Commission string `json:"commission" yaml:"commission"`
}

var EmployeeHeaders = []string{"ID", "Name", "Email", "Department", "Job", "Manager", "Start date", "Salary"}

func (e Employee) Row() []string {
	return []string{e.ID, e.FullName, e.Email, e.Department, e.JobTitle, e.Manager, e.HireDate, e.Salary}
}

type Department struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Manager   string `json:"manager" yaml:"manager"`
	Location  string `json:"location" yaml:"location"`
	Employees string `json:"employees" yaml:"employees"`
}

var DepartmentHeaders = []string{"ID", "Department", "Manager", "Location", "Employees"}

func (d Department) Row() []string {
	return []string{d.ID, d.Name, d.Manager, d.Location, d.Employees}
}

type Location struct {
	ID            string `json:"id" yaml:"id"`
	StreetAddress string `json:"street_address" yaml:"street_address"`
	PostalCode    string `json:"postal_code" yaml:"postal_code"`
	City          string `json:"city" yaml:"city"`
	StateProvince string `json:"state_province" yaml:"state_province"`
	Country       string `json:"country" yaml:"country"`
}

var LocationHeaders = []string{"ID", "Street address", "Postal code", "City", "State/Province", "Country"}

func (l Location) Row() []string {
	return []string{l.ID, l.StreetAddress, l.PostalCode, l.City, l.StateProvince, l.Country}
}

type Job struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	MinSalary string `json:"min_salary" yaml:"min_salary"`
	MaxSalary string `json:"max_salary" yaml:"max_salary"`
}

var JobHeaders = []string{"ID", "Title", "Min salary", "Max salary"}

func (j Job) Row() []string {
	return []string{j.ID, j.Title, j.MinSalary, j.MaxSalary}
}

type JobHistory struct {
	Employee   string `json:"employee" yaml:"employee"`
	StartDate  string `json:"start_date" yaml:"start_date"`
	EndDate    string `json:"end_date" yaml:"end_date"`
	JobTitle   string `json:"job_title" yaml:"job_title"`
	Department string `json:"department" yaml:"department"`
}

var JobHistoryHeaders = []string{"Employee", "Start date", "End date", "Job", "Department"}

func (h JobHistory) Row() []string {
	return []string{h.Employee, h.StartDate, h.EndDate, h.JobTitle, h.Department}
}

// Field is one label/value line of a detail view.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}
