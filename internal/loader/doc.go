// Package loader materializes GeoJSON documents into scene entities. It
// resolves the document's coordinate reference system through the crs
// registry, then walks the object tree (features, collections, bare
// geometries), creating one entity per decoded primitive with default styling
// merged on. Loads fully replace the target store's contents; CRS resolution
// happens before the store is cleared so a malformed document never destroys
// the previous collection.
package loader
