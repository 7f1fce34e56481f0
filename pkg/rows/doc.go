// Package rows flattens grouped, collapsible resources into the ordered list
// of group headers and resource rows that the grid draws top to bottom.
//
// # Layout Rule
//
// For each group in order, [Build] emits one header of the configured
// header height. A collapsed group emits nothing else. An expanded group
// emits one row per resource whose height is laneCount × base row height,
// where laneCount comes from the lane engine (1 when absent). Offsets are a
// running sum, so they increase monotonically and the final offset equals
// the total height.
//
// A layout is never patched in place. Growing one resource by a lane shifts
// every row beneath it, so callers rebuild the whole layout whenever group
// order, the collapse set, or any lane count changes.
//
// # Hit Testing
//
// [Layout.At] maps a vertical content coordinate to the item under it with
// a binary search over offsets; [Layout.ResourceAt] narrows that to
// resource rows, which is what drag targeting needs.
package rows
