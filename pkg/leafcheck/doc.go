// Package leafcheck diagnoses tomato leaf diseases from photos and flags spam
// text messages using local ONNX models.
//
// Quick start:
//
//	c, err := leafcheck.New(leafcheck.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	d, _ := c.DiagnoseFile(ctx, "leaf.jpg")
//	fmt.Println(d.Disease.Class, d.Disease.Confidence) // Tomato_Early_blight 97.41
//
// A Checker is safe for concurrent use. Create once, reuse across requests.
package leafcheck
