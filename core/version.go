package core

// Version is the client version, embedded in the User-Agent header and the
// --version output.
const Version = "1.2.0"

// UserAgent identifies this client to the analysis server.
const UserAgent = "mixanalyzer-cli/" + Version
