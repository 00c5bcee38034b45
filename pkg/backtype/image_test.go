package backtype

import "testing"

func TestImageURL(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.ImageURL("12345", "")
	if err != nil {
		t.Fatalf("ImageURL default: %v", err)
	}
	if got != "http://www.backtype.com/go/image/p/t/12345.jpg" {
		t.Fatalf("default size url = %s", got)
	}

	got, err = c.ImageURL("12345", ImageSizeO)
	if err != nil {
		t.Fatalf("ImageURL o: %v", err)
	}
	if got != "http://www.backtype.com/go/image/p/o/12345.jpg" {
		t.Fatalf("size o url = %s", got)
	}
}

func TestImageURLRejectsUnknownSize(t *testing.T) {
	c, _ := New("")
	if _, err := c.ImageURL("12345", ImageSize("x")); !IsInvalidParameter(err) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
	if _, err := c.ImageURL(" ", ""); !IsInvalidParameter(err) {
		t.Fatalf("expected invalid parameter for empty id, got %v", err)
	}
}

func TestImageURLCustomBase(t *testing.T) {
	c, err := New("", WithImageBaseURL("https://img.example/p"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.ImageURL("a b", ImageSizeM)
	if err != nil {
		t.Fatalf("ImageURL: %v", err)
	}
	if got != "https://img.example/p/m/a%20b.jpg" {
		t.Fatalf("url = %s", got)
	}
}
