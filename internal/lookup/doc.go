// Package lookup implements the NIK lookup workflow.
//
// A lookup runs four steps in order, stopping at the first failure:
//
//	validate → probe connectivity → GET <endpoint>?query=<nik> → format + record history
//
// Every failure is a model.CLIError whose Code names the error kind
// (InvalidFormat, NoConnection, RequestFailed). Invalid input never
// reaches the network, and a valid input causes exactly one request to
// the lookup endpoint. There are no retries.
package lookup
