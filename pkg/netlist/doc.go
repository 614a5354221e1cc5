// Package netlist propagates a post-route change list into every
// netlist view of a design.
//
// A placement/route flow can add cells after the structural netlists
// were written: antenna-fix diodes, fill cells. This package re-applies
// those additions so all views stay consistent:
//
//   - StructuralSynchronizer inserts instantiation lines into one or
//     more structural-netlist variants, immediately before each module
//     terminator. The power-stripped variant connects only the data
//     pin; the power-complete variant also wires the power and ground
//     pins by name.
//   - SpiceSynchronizer inserts instance lines into a transistor-level
//     netlist, with pins emitted in the order declared by each cell's
//     subcircuit in a library file. It drops stale copies of the same
//     instances first, so re-applying an already-annotated netlist is
//     a no-op.
//
// Both synchronizers copy every pre-existing line verbatim and in
// order; the only mutation is insertion (and, for SPICE, dropping lines
// this package previously inserted). Power and ground pin names can be
// remapped through a PowerGroundAlias loaded from a name=value file;
// without one, names pass through literally.
package netlist
