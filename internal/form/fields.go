package form

import "github.com/Veraticus/loanwise/internal/model"

// Field describes how a form field is presented.
type Field struct {
	ID          model.FieldID
	Label       string
	Placeholder string
	Integer     bool
}

// Fields lists the form fields in display order.
var Fields = []Field{
	{ID: model.FieldGender, Label: "Gender", Placeholder: "0 = female, 1 = male", Integer: true},
	{ID: model.FieldMarried, Label: "Married", Placeholder: "0 = no, 1 = yes", Integer: true},
	{ID: model.FieldEducation, Label: "Education", Placeholder: "0 = not graduate, 1 = graduate", Integer: true},
	{ID: model.FieldCreditHistory, Label: "Credit history", Placeholder: "0 = none, 1 = meets guidelines", Integer: true},
	{ID: model.FieldLoanAmount, Label: "Loan amount", Placeholder: "e.g. 128.5"},
}

// Lookup returns the presentation of id.
func Lookup(id model.FieldID) (Field, bool) {
	for _, f := range Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}
