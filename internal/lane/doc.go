// Package lane models one observation period of an HOV lane and the
// general-purpose lane beside it.
//
// A Generator builds a Sample by running a fixed chain of stochastic steps.
// Later steps read fields written by earlier ones, so the order is part of
// the contract:
//
//  1. peak hour, then HOV/SOV/GPV volumes and fuel-efficient SOV counts
//  2. season, then weather intensity
//  3. accident occurrence, then accident count and accident fines
//  4. lane speeds, chosen from weather, accidents, and volumes
//  5. emissions and travel times, derived from speeds
//  6. fines, derived from SOV volume and camera uptime
//
// Each step takes the partial Sample by value and returns the updated one.
// All domain constants come from a Calibration.
package lane
