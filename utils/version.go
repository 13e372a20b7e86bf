package utils

// REVISION is stamped into every API response envelope.
const REVISION = "v1.2.0"
