package ravelin

// Version is the SDK release.
const Version = "1.2.0"

// sdkVersion is reported in every CipherPayload unless overridden.
const sdkVersion = "ravelin-go/" + Version
