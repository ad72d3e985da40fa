package main

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/tordrt/resourcekit/internal/resource"
)

var promptDataTypes = []string{
	resource.TypeString, resource.TypeText, resource.TypeInteger, resource.TypeBigInteger,
	resource.TypeBoolean, resource.TypeDecimal, resource.TypeDate, resource.TypeDateTime,
	resource.TypeEnum, resource.TypeJSON,
}

// askFields prompts for fields until an empty name is entered
func askFields(locales []string) ([]*resource.Field, error) {
	var fields []*resource.Field
	for {
		answers := struct {
			Name     string
			DataType string `survey:"datatype"`
			Nullable bool   `survey:"nullable"`
		}{}

		if err := survey.AskOne(&survey.Input{Message: "Field name (empty to finish):"}, &answers.Name); err != nil {
			return nil, err
		}
		if answers.Name == "" {
			return fields, nil
		}

		questions := []*survey.Question{
			{
				Name: "datatype",
				Prompt: &survey.Select{
					Message: "Data type:",
					Options: promptDataTypes,
					Default: resource.TypeString,
				},
			},
			{
				Name:   "nullable",
				Prompt: &survey.Confirm{Message: "Nullable?", Default: false},
			},
		}
		if err := survey.Ask(questions, &answers); err != nil {
			return nil, err
		}

		f := resource.NewField(answers.Name)
		f.DataType = answers.DataType
		f.IsNullable = answers.Nullable
		if f.DataType == resource.TypeEnum {
			var options string
			if err := survey.AskOne(&survey.Input{Message: "Options (separated by |):"}, &options, survey.WithValidator(survey.Required)); err != nil {
				return nil, err
			}
			parsed, _ := resource.ParseFields("name:"+f.Name+";options:"+options, locales)
			if len(parsed) == 1 {
				f.Options = parsed[0].Options
			}
		}
		resource.Optimize(f, locales)
		fields = append(fields, f)
	}
}
