// Package luma prepares source images for analysis: it bounds the working
// resolution and reduces RGBA pixels to a single luminance channel.
package luma
