// Package compositor paints tiles, illustrations and animation frames into
// image.Image values.
//
// Frames are positioned in frame coordinates: sprites are placed at their
// X and Y, and Origin marks the ground-level anchor. FrameRect and
// AnimationRect compute the bounds to crop to, and DrawFrame paints
// background sprites before foreground sprites, each layer in list order,
// with optional box and origin overlays on top.
//
// Nothing here is drawn on screen; callers encode the returned images or
// print them on a terminal.
package compositor
