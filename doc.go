// Package strider provides a forward state-transition simulator for
// grounded planning actions.
//
// The problem data model is in package 'model', the simulator itself
// is in package 'sim', and condition evaluators are under 'interp'.
//
// See https://github.com/Comcast/strider/blob/master/README.md for more.
package strider
