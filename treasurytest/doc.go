// Package treasurytest provides mocks and helpers shared by the tests of all
// packages.
package treasurytest
