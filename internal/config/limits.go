package config

const (
	// MaxOrgNameLength is the maximum length for organization names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxOrgNameLength = 255

	// MaxOrgSlugLength is the maximum length for organization slugs.
	MaxOrgSlugLength = 64

	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxProjectNameLength = 255

	// MaxProjectKeyLength is the maximum length for project keys
	// (short uppercase codes like "CAD" used as issue prefixes).
	MaxProjectKeyLength = 10

	// MaxItemTitleLength is the maximum length for work item titles.
	MaxItemTitleLength = 255

	// MaxDescriptionLength bounds free-text description fields.
	// Longer bodies belong in attached files.
	MaxDescriptionLength = 10000

	// MaxSprintNameLength is the maximum length for sprint names.
	MaxSprintNameLength = 255

	// MaxFileNameLength is the maximum length for file and folder names.
	MaxFileNameLength = 255

	// MaxCommentLength is the maximum length for comment bodies.
	MaxCommentLength = 5000

	// MaxMetadataKeys bounds the number of top-level keys in metadata
	// and settings maps. The maps are opaque to business logic and only
	// size/depth checked before storage.
	MaxMetadataKeys = 64

	// MaxMetadataDepth bounds nesting of metadata/settings values.
	MaxMetadataDepth = 4

	// MaxMetadataBytes bounds the JSON-encoded size of a metadata map.
	MaxMetadataBytes = 32 << 10

	// MaxUploadBytes bounds a single file upload.
	MaxUploadBytes = 50 << 20
)
