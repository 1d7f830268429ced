package browser

// Reads everything the scroll package needs about an element in one pass so
// the values come from a single layout.  top/left are document coordinates
// of the border box.
const layoutScript = `function() {
	var styles = window.getComputedStyle(this);
	var rect = this.getBoundingClientRect();
	var docElem = this.ownerDocument.documentElement;
	var win = this.ownerDocument.defaultView || window;

	return {
		overflowX:         styles.overflowX,
		overflowY:         styles.overflowY,
		borderTopWidth:    styles.borderTopWidth,
		borderBottomWidth: styles.borderBottomWidth,
		borderLeftWidth:   styles.borderLeftWidth,
		borderRightWidth:  styles.borderRightWidth,
		offsetWidth:       this.offsetWidth || 0,
		offsetHeight:      this.offsetHeight || 0,
		scrollWidth:       this.scrollWidth || 0,
		scrollHeight:      this.scrollHeight || 0,
		clientWidth:       this.clientWidth || 0,
		clientHeight:      this.clientHeight || 0,
		top:               rect.top + win.pageYOffset - (docElem.clientTop || 0),
		left:              rect.left + win.pageXOffset - (docElem.clientLeft || 0),
		outerWidth:        this.offsetWidth || rect.width,
		outerHeight:       this.offsetHeight || rect.height,
		scrollTop:         this.scrollTop || 0,
		scrollLeft:        this.scrollLeft || 0
	};
}`

// Moves scrollTop/scrollLeft (either may be null) linearly to their targets
// over duration milliseconds, resolving once the last frame is written.
const applyScrollScript = `function(scrollTop, scrollLeft, duration) {
	var el = this;
	var targets = {};

	if (scrollTop !== null) { targets.scrollTop = scrollTop; }
	if (scrollLeft !== null) { targets.scrollLeft = scrollLeft; }

	var keys = Object.keys(targets);

	return new Promise(function(resolve) {
		if (!(duration > 0)) {
			keys.forEach(function(k) { el[k] = targets[k]; });
			resolve(true);
			return;
		}

		var start = {};
		var began = null;

		keys.forEach(function(k) { start[k] = el[k]; });

		var step = function(now) {
			if (began === null) { began = now; }

			var t = Math.min(1, (now - began) / duration);

			keys.forEach(function(k) {
				el[k] = start[k] + (targets[k] - start[k]) * t;
			});

			if (t < 1) {
				window.requestAnimationFrame(step);
			} else {
				resolve(true);
			}
		};

		window.requestAnimationFrame(step);
	});
}`

const parentScript = `function() { return this.parentElement; }`

const positionScript = `function() { return this.getBoundingClientRect().toJSON(); }`
