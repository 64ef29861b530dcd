package meta

const Version = "v0.1.0"
