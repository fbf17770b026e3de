package config

import (
	"fmt"

	"boxmux/internal/chart"
	"boxmux/internal/geometry"
	"boxmux/internal/model"
	"boxmux/internal/table"
)

// parsePosition converts a rawPosition's four freeform YAML scalars into
// a geometry.Position (Section 3: "each either a percentage string or
// absolute cell count").
func parsePosition(rp *rawPosition) (geometry.Position, error) {
	x1, err := parseEdgeField("x1", rp.X1)
	if err != nil {
		return geometry.Position{}, err
	}
	y1, err := parseEdgeField("y1", rp.Y1)
	if err != nil {
		return geometry.Position{}, err
	}
	x2, err := parseEdgeField("x2", rp.X2)
	if err != nil {
		return geometry.Position{}, err
	}
	y2, err := parseEdgeField("y2", rp.Y2)
	if err != nil {
		return geometry.Position{}, err
	}
	return geometry.Position{X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

func parseEdgeField(field string, raw any) (geometry.Edge, error) {
	if raw == nil {
		return geometry.Edge{}, fmt.Errorf("missing required field %q", field)
	}
	edge, err := model.ParsePosValue(raw)
	if err != nil {
		return geometry.Edge{}, fmt.Errorf("%s: %w", field, err)
	}
	return edge, nil
}

func chartConfigFromRaw(rc *rawChartConfig) chart.Config {
	return chart.Config{
		Type:       chart.Type(rc.Type),
		Width:      rc.Width,
		Height:     rc.Height,
		Title:      rc.Title,
		XAxisLabel: rc.XAxisLabel,
		YAxisLabel: rc.YAxisLabel,
	}
}

func chartPointFromRaw(rp *rawChartPoint) chart.DataPoint {
	return chart.DataPoint{Label: rp.Label, X: rp.X, Value: rp.Value}
}

func tableConfigFromRaw(rt *rawTableConfig) *table.Config {
	return &table.Config{
		Headers:        rt.Headers,
		Sortable:       rt.Sortable,
		Filterable:     rt.Filterable,
		PageSize:       rt.PageSize,
		ShowRowNumbers: rt.ShowRowNumbers,
		ZebraStriping:  rt.ZebraStriping,
		BorderStyle:    table.BorderStyle(rt.BorderStyle),
	}
}
