// Package types defines the entity contract, entity metadata, the generic
// record and table store interfaces, the Location and Category entities,
// configuration, and the standard errors shared by the stores, the
// repository, and the remote initializer.
package types
