// Package variant assembles the named grouping variants reported for each
// evaluated event, marking which one actually determines the group.
package variant
