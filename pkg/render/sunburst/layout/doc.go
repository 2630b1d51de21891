// Package layout computes the radial partition drawn by the sunburst.
//
// Every node of a [hierarchy.Node] tree gets an angular extent [X0, X1) in
// radians and a radial band [Y0, Y1) in pixels. Angles start at 12 o'clock
// and run clockwise. The root owns the full circle and the innermost disk;
// each level below it occupies the next ring of equal thickness.
//
// A child's angular span is proportional to its value relative to its
// siblings, so children always lie within their parent's span. Negative
// values are treated as 0. When all siblings are 0 the parent's span is
// split evenly so that every group stays visible.
//
// The layout is centered at the origin. Sinks translate it into place.
package layout
