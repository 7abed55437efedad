/*
Package x contains the extensions of the treasury application.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together in the app package.
This package itself only holds the authentication glue shared by
all of them.
*/
package x
