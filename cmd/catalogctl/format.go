package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

type formatter func(any) error

func yamlFormatter(resource any) error {
	data, err := yaml.Marshal(resource)
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	return nil
}

func jsonFormatter(resource any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "\t")

	return encoder.Encode(resource)
}

// tableFormatter renders a record or a list of records, one row per record
func tableFormatter(resource any) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	header, rows, err := tabulate(resource)
	if err != nil {
		return err
	}

	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()

	return nil
}

func tabulate(resource any) (table.Row, []table.Row, error) {
	value := reflect.Indirect(reflect.ValueOf(resource))

	var items []reflect.Value
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			items = append(items, reflect.Indirect(value.Index(i)))
		}
	case reflect.Struct:
		items = append(items, value)
	default:
		return nil, nil, fmt.Errorf("can not format %v as a table", value.Kind())
	}

	elemType := value.Type()
	if value.Kind() != reflect.Struct {
		elemType = elemType.Elem()
		if elemType.Kind() == reflect.Pointer {
			elemType = elemType.Elem()
		}
	}
	if elemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("can not format %v as a table", elemType)
	}

	var header table.Row
	var fields []int
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if !field.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		header = append(header, name)
		fields = append(fields, i)
	}

	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		row := make(table.Row, 0, len(fields))
		for _, i := range fields {
			row = append(row, fmt.Sprint(item.Field(i).Interface()))
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func getFormatter(formatName outputFormat) (formatter, error) {
	switch formatName {
	case "yaml", "yml":
		return yamlFormatter, nil
	case "json":
		return jsonFormatter, nil
	case "table":
		return tableFormatter, nil
	}

	return nil, fmt.Errorf("unexpected output format %q", formatName)
}
