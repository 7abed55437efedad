/*
Package errors implements custom error interfaces for the treasury
application.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions register their
own kinds with Register(code, description), see x/multisig for an example.

For reusing errors use Wrap, Wrapf or Errxxx.New and Errxxx.Newf. The code
is reported to the client in the ABCI response, which allows it to
distinguish types of errors and act accordingly.

Wrapping attaches a stack trace at the lowest frame only. Once you have an
error, you can use fmt to get more context for the error

	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors
