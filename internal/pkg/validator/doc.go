// Package validator checks request and usecase input structs.
//
// Usecases depend on Validator. V10Validator is the go-playground/validator
// implementation; besides the built in tags it knows "password" and "phone".
package validator
