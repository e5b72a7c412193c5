package employees

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var Statuses = []string{StatusActive, StatusInactive}

type Employee struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	MiddleName     string    `json:"middleName,omitempty"`
	LastName       string    `json:"lastName"`
	SecondLastName string    `json:"secondLastName,omitempty"`
	Username       string    `json:"username"`
	Gender         string    `json:"gender,omitempty"`
	Age            int       `json:"age,omitempty"`
	ContractID     *int      `json:"contractId,omitempty"`
	Position       string    `json:"position,omitempty"`
	MaritalStatus  string    `json:"maritalStatus,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	BirthCity      string    `json:"birthCity,omitempty"`
	Department     string    `json:"department,omitempty"`
	Email          string    `json:"email,omitempty"`
	InternalEmail  string    `json:"internalEmail,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	BaseSalary     float64   `json:"baseSalary"`
	Status         string    `json:"status"`
}
