package redis

const (
	keyPrefix = "attachments/"

	// KeyPrefixAttachmentContent is the key prefix for cached attachment content
	KeyPrefixAttachmentContent = keyPrefix + "content/"
)
