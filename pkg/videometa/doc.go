// Package videometa scans a blob-storage container for training videos and
// synthesizes a metadata document for each one from its storage key.
//
// The package is organised in three stages that run sequentially:
//
//   - Inventory lists the container, keeps video files and classifies each
//     into a difficulty category with a display name (Classify).
//   - Synthesis builds a Record from a VideoEntry (BuildRecord). It is a pure
//     function of the entry and optional caller overrides.
//   - Publication writes the Record as JSON to metadata/<clean name>.json
//     (Generator.Publish).
//
// Storage is pluggable through the BlobStore interface; memory, filesystem,
// S3 and Azure Blob implementations live under the storage subpackages. The
// batch driver that walks every video lives in the scan subpackage.
//
// Duration is estimated from file size; video content is never inspected.
package videometa
