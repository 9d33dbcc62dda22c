package common

// TimestampLayout is the wire format of message timestamps (dd/mm/yyyy hh:mm:ss).
const TimestampLayout = "02/01/2006 15:04:05"
