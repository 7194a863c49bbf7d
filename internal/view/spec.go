// Package view builds chart specifications from filtered processed data.
// Every builder is a pure function; rendering happens elsewhere.
package view

import "strings"

// Series is one plotted series: Labels carry the x values (dates or country
// names), Values the y values.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values"`
}

// ChartSpec describes one chart for the rendering layer to draw.
type ChartSpec struct {
	Type   string   `json:"type"` // "line", "bar", "choropleth"
	Title  string   `json:"title"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Series []Series `json:"series"`
}

// titleize turns a metric name like "new_cases" into "New Cases".
func titleize(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
