// Package dscc defines the wire contract between the sunburst renderer and the
// dashboard host that embeds it.
//
// The host delivers a [Message] on every data change. A message carries the
// current table in columnar form (one record per row, with the dimension and
// metric values in separate arrays), the declared fields, the style
// configuration, the theme and the current interaction (filter) state:
//
//	{
//	  "tables": {"DEFAULT": [{"dimension": ["A", "X"], "metric": [10]}]},
//	  "fields": {
//	    "dimension": [{"id": "qt_region", "name": "Region"}, {"id": "qt_city", "name": "City"}],
//	    "metric":    [{"id": "qt_sales", "name": "Sales"}]
//	  },
//	  "style": {"isLegend": {"value": true, "defaultValue": true}},
//	  "interactions": {"sunburstFilter": {"value": {"type": "FILTER", "data": {...}}}}
//	}
//
// In the other direction the chart emits a [FilterEvent] when the user clicks
// an arc. The host owns turning that event into a dashboard-wide filter and
// reflects it back in the next message's interactions.
package dscc
