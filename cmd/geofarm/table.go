package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/manzanit0/geofarm/pkg/geocodefarm"
)

func NewResultsTable(res geocodefarm.Result) string {
	if !res.Found() || len(res.Locations()) == 0 {
		return "no results\n"
	}

	b := bytes.NewBuffer([]byte{})
	table := tablewriter.NewWriter(b)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Name", "Latitude", "Longitude", "Accuracy"})

	for i, loc := range res.Locations() {
		lat, lon := "-", "-"
		if loc.Point != nil {
			lat = strconv.FormatFloat(loc.Point.Latitude, 'f', -1, 64)
			lon = strconv.FormatFloat(loc.Point.Longitude, 'f', -1, 64)
		}

		name := "-"
		if loc.DisplayName != nil {
			name = *loc.DisplayName
		}

		accuracy := loc.Accuracy
		if accuracy == "" {
			accuracy = "-"
		}

		table.Append([]string{fmt.Sprint(i + 1), name, lat, lon, accuracy})
	}

	table.Render()

	return b.String()
}
