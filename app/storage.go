package app

// BlobStore is the object store holding image bytes. PublicURL and
// KeyFromURL convert between stored keys and the URLs persisted on records.
type BlobStore interface {
	Upload(key string, data []byte) error
	Delete(key string) error
	PublicURL(key string) string
	KeyFromURL(url string) string
}
